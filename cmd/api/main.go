package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/movietrack-api/internal/config"
	"github.com/movietrack-api/internal/infrastructure/dynamo"
	googleinfra "github.com/movietrack-api/internal/infrastructure/google"
	jwtinfra "github.com/movietrack-api/internal/infrastructure/jwt"
	"github.com/movietrack-api/internal/infrastructure/otpstore"
	"github.com/movietrack-api/internal/infrastructure/smtp"
	transporthttp "github.com/movietrack-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Token signing is not optional: every authenticated route depends on it.
	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Pending OTP codes live in process memory; lost on restart by design.
	codes := otpstore.New()
	defer codes.Close()

	mailer := smtp.NewMailer(cfg)
	googleVerifier := googleinfra.NewVerifier(cfg.GoogleClientID)

	deps := &transporthttp.Deps{
		AccountRepo:      dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		ProfileRepo:      dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		WatchlistRepo:    dynamo.NewListRepo(dynamoClient, cfg.DynamoTables.Watchlists),
		WatchedRepo:      dynamo.NewListRepo(dynamoClient, cfg.DynamoTables.Watched),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		OTPStore:         codes,
		Mailer:           mailer,
		JWTProvider:      jwtProvider,
		GoogleVerifier:   googleVerifier,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
