package http

import (
	"github.com/movietrack-api/internal/infrastructure/dynamo"
	googleinfra "github.com/movietrack-api/internal/infrastructure/google"
	jwtinfra "github.com/movietrack-api/internal/infrastructure/jwt"
	"github.com/movietrack-api/internal/infrastructure/otpstore"
	"github.com/movietrack-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo      *dynamo.AccountRepo
	ProfileRepo      *dynamo.ProfileRepo
	WatchlistRepo    *dynamo.ListRepo
	WatchedRepo      *dynamo.ListRepo
	VerificationRepo *dynamo.VerificationRepo
	OTPStore         *otpstore.Store
	Mailer           smtp.Mailer
	JWTProvider      *jwtinfra.Provider
	GoogleVerifier   *googleinfra.Verifier
}
