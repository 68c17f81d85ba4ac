package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/movietrack-api/internal/application/account"
	"github.com/movietrack-api/internal/application/otp"
	"github.com/movietrack-api/internal/application/watch"
	"github.com/movietrack-api/internal/config"
	"github.com/movietrack-api/internal/transport/http/handler"
	appmiddleware "github.com/movietrack-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handler.Production = cfg.IsProduction()

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Codes:         deps.OTPStore,
		AccountRepo:   deps.AccountRepo,
		ProfileRepo:   deps.ProfileRepo,
		Verifications: deps.VerificationRepo,
		Mailer:        deps.Mailer,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		AccountRepo:   deps.AccountRepo,
		ProfileRepo:   deps.ProfileRepo,
		Verifications: deps.VerificationRepo,
		Mailer:        deps.Mailer,
		TokenSigner:   deps.JWTProvider,
		Google:        deps.GoogleVerifier,
	})
	watchlistSvc := watch.NewService(deps.WatchlistRepo)
	watchedSvc := watch.NewService(deps.WatchedRepo)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	watchlistH := handler.NewWatchlistHandler(watchlistSvc)
	watchedH := handler.NewWatchedHandler(watchedSvc)

	userRoutes := func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/send-otp", otpH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/verify-otp", otpH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/login", accountH.Login)
		r.With(sensitiveRL.Limit).Post("/forgot-password", accountH.ForgotPassword)
		r.Post("/reset-password", accountH.ResetPassword)
		r.Post("/confirm-email", accountH.ConfirmEmail)
		r.Post("/verify-google-token", accountH.VerifyGoogleToken)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Post("/update-name", accountH.UpdateName)
		})
	}

	r.Route("/api/user", userRoutes)
	// Alias kept for older clients.
	r.Route("/api/users", userRoutes)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Route("/watchlist", func(r chi.Router) {
			r.Post("/add", watchlistH.Add)
			r.Get("/", watchlistH.Get)
			r.Delete("/remove", watchlistH.Remove)
			r.Delete("/clear", watchlistH.Clear)
		})
		r.Route("/watched", func(r chi.Router) {
			r.Post("/add", watchedH.Add)
			r.Get("/", watchedH.Get)
			r.Delete("/remove", watchedH.Remove)
			r.Delete("/clear", watchedH.Clear)
		})
	})

	r.Get("/health", healthH.Ping)

	return r
}
