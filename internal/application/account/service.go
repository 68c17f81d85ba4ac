// Package account covers everything after registration: login, profile name
// updates, password reset, email confirmation and Google sign-in.
package account

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/movietrack-api/internal/domain"
	googleinfra "github.com/movietrack-api/internal/infrastructure/google"
	"github.com/movietrack-api/internal/infrastructure/smtp"
	"github.com/movietrack-api/internal/pkg/id"
	"github.com/movietrack-api/internal/pkg/username"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// DynamoDB attribute names used in partial update maps.
const (
	fieldName          = "name"
	fieldDisplayName   = "display_name"
	fieldPasswordHash  = "password_hash"
	fieldEmailVerified = "email_verified"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// GoogleResult echoes provider-verified identity. No bearer token is minted
// on this path — callers wanting an API token must go through login.
type GoogleResult struct {
	UserID   string
	Email    string
	Username string
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (token string, err error)
	UpdateName(ctx context.Context, userID, name string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ConfirmEmail(ctx context.Context, email, token string) error
	VerifyGoogleToken(ctx context.Context, idToken string) (*GoogleResult, error)
}

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type profileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Put(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, accountID, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, accountID, verType string) error
}

type tokenSigner interface {
	Sign(userID, email string) (string, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*googleinfra.Payload, error)
}

type service struct {
	accounts      accountStore
	profiles      profileStore
	verifications verificationStore
	mailer        smtp.Mailer
	signer        tokenSigner
	google        googleVerifier
}

type ServiceDeps struct {
	AccountRepo   accountStore
	ProfileRepo   profileStore
	Verifications verificationStore
	Mailer        smtp.Mailer
	TokenSigner   tokenSigner
	Google        googleVerifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		accounts:      deps.AccountRepo,
		profiles:      deps.ProfileRepo,
		verifications: deps.Verifications,
		mailer:        deps.Mailer,
		signer:        deps.TokenSigner,
		google:        deps.Google,
	}
}

// Login checks the password hash and email-verification state, then mints a
// 1-hour bearer token carrying {id, email}.
func (s *service) Login(ctx context.Context, req LoginRequest) (string, error) {
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredential)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredential)
	}
	if !a.EmailVerified {
		return "", fmt.Errorf("email not verified, please check your inbox: %w", domain.ErrForbidden)
	}
	return s.signer.Sign(a.AccountID, a.Email)
}

// UpdateName writes the trimmed name to the profile document and the account
// display name. The two writes are not transactional.
func (s *service) UpdateName(ctx context.Context, userID, name string) error {
	if userID == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("user id and name are required: %w", domain.ErrBadRequest)
	}
	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	trimmed := strings.TrimSpace(name)
	if err := s.profiles.Update(ctx, userID, map[string]interface{}{fieldName: trimmed}); err != nil {
		return err
	}
	return s.accounts.Update(ctx, userID, map[string]interface{}{fieldDisplayName: trimmed})
}

// ForgotPassword stores a reset token and mails it. A mail failure is an
// upstream error; the stored token is left in place.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
	}
	token, err := generateToken(32)
	if err != nil {
		return err
	}
	v := &domain.Verification{
		AccountID: a.AccountID,
		Type:      domain.VerificationPasswordReset,
		Code:      token,
		ExpiresAt: time.Now().Add(resetTokenTTL).Unix(),
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return err
	}
	if err := s.mailer.SendEmail(a.Email, "Reset your password", "Reset token: "+token); err != nil {
		return fmt.Errorf("send reset email: %v: %w", err, domain.ErrUpstream)
	}
	return nil
}

// ResetPassword validates the stored reset token and rewrites the password
// hash. Tokens are single-use.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
	}
	v, err := s.verifications.Get(ctx, a.AccountID, domain.VerificationPasswordReset)
	if err != nil {
		return fmt.Errorf("no pending reset: %w", domain.ErrNotFound)
	}
	if v.Code != req.Token {
		return fmt.Errorf("invalid reset token: %w", domain.ErrInvalidCredential)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return fmt.Errorf("reset token expired: %w", domain.ErrExpired)
	}
	if err := s.verifications.Delete(ctx, a.AccountID, domain.VerificationPasswordReset); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.accounts.Update(ctx, a.AccountID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

// ConfirmEmail validates the confirmation token mailed at registration and
// marks the account and its profile verified.
func (s *service) ConfirmEmail(ctx context.Context, email, token string) error {
	if email == "" || token == "" {
		return fmt.Errorf("email and token are required: %w", domain.ErrBadRequest)
	}
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
	}
	v, err := s.verifications.Get(ctx, a.AccountID, domain.VerificationEmail)
	if err != nil {
		return fmt.Errorf("no pending confirmation: %w", domain.ErrNotFound)
	}
	if v.Code != token {
		return fmt.Errorf("invalid confirmation token: %w", domain.ErrInvalidCredential)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return fmt.Errorf("confirmation token expired: %w", domain.ErrExpired)
	}
	if err := s.verifications.Delete(ctx, a.AccountID, domain.VerificationEmail); err != nil {
		return err
	}
	if err := s.accounts.Update(ctx, a.AccountID, map[string]interface{}{fieldEmailVerified: true}); err != nil {
		return err
	}
	return s.profiles.Update(ctx, a.AccountID, map[string]interface{}{fieldEmailVerified: true})
}

// VerifyGoogleToken validates a Google ID token. On first sight of a user it
// creates the account and mirrors a profile; afterwards it echoes the stored
// username unchanged.
func (s *service) VerifyGoogleToken(ctx context.Context, idToken string) (*GoogleResult, error) {
	if idToken == "" {
		return nil, fmt.Errorf("google token is required: %w", domain.ErrBadRequest)
	}
	payload, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.GetByEmail(ctx, payload.Email)
	if err != nil {
		now := time.Now().UTC()
		a = &domain.Account{
			AccountID:     id.New(),
			Email:         payload.Email,
			DisplayName:   payload.DisplayName,
			AuthProvider:  domain.ProviderGoogle,
			GoogleSub:     payload.Sub,
			EmailVerified: payload.EmailVerified,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.accounts.Put(ctx, a); err != nil {
			return nil, fmt.Errorf("create account: %v: %w", err, domain.ErrBadRequest)
		}
	}

	uname := ""
	if p, err := s.profiles.Get(ctx, a.AccountID); err == nil {
		uname = p.Username
	} else {
		uname = username.Derive(a.Email)
		p := &domain.Profile{
			UserID:        a.AccountID,
			Email:         a.Email,
			Name:          a.DisplayName,
			Username:      uname,
			CreatedAt:     a.CreatedAt,
			EmailVerified: a.EmailVerified,
		}
		if err := s.profiles.Put(ctx, p); err != nil {
			return nil, fmt.Errorf("save profile: %v: %w", err, domain.ErrBadRequest)
		}
	}

	return &GoogleResult{UserID: a.AccountID, Email: a.Email, Username: uname}, nil
}

func generateToken(n int) (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		b.WriteByte(letters[idx.Int64()])
	}
	return b.String(), nil
}
