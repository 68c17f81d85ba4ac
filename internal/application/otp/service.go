// Package otp implements email-code registration: a code is mailed to prove
// control of the address, then a verified code provisions the account and
// its mirrored profile in one flow.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/movietrack-api/internal/domain"
	"github.com/movietrack-api/internal/infrastructure/otpstore"
	"github.com/movietrack-api/internal/infrastructure/smtp"
	"github.com/movietrack-api/internal/pkg/id"
	"github.com/movietrack-api/internal/pkg/username"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeTTL         = 5 * time.Minute
	minPasswordLen  = 6
	confirmTokenTTL = 24 * time.Hour
)

type VerifyOTPRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

// RegistrationResult is what a successful verify-otp returns to the client.
type RegistrationResult struct {
	UserID           string
	Email            string
	Username         string
	EmailVerified    bool
	ConfirmationSent bool
}

type Service interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*RegistrationResult, error)
}

type codeStore interface {
	Put(email, code string, ttl time.Duration)
	Get(email string) (otpstore.Entry, bool)
	Delete(email string)
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
}

type profileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Put(ctx context.Context, p *domain.Profile) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
}

type service struct {
	codes         codeStore
	accounts      accountStore
	profiles      profileStore
	verifications verificationStore
	mailer        smtp.Mailer
}

type ServiceDeps struct {
	Codes         codeStore
	AccountRepo   accountStore
	ProfileRepo   profileStore
	Verifications verificationStore
	Mailer        smtp.Mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		codes:         deps.Codes,
		accounts:      deps.AccountRepo,
		profiles:      deps.ProfileRepo,
		verifications: deps.Verifications,
		mailer:        deps.Mailer,
	}
}

// SendOTP stores a fresh 6-digit code for email (replacing any prior one)
// and mails it. A failed send is reported to the caller but the stored code
// is kept, so a user who somehow knows the code can still register.
func (s *service) SendOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	s.codes.Put(email, code, codeTTL)

	if err := s.mailer.SendEmail(email, "Your OTP Code",
		fmt.Sprintf("Your OTP is: %s. It expires in 5 minutes.", code)); err != nil {
		return fmt.Errorf("send OTP email: %v: %w", err, domain.ErrUpstream)
	}
	return nil
}

// VerifyOTP consumes the pending code for email and, when it matches,
// provisions the account and its mirrored profile. The code is single-use:
// it is deleted on success, mismatch and expiry alike.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*RegistrationResult, error) {
	switch {
	case req.Email == "":
		return nil, fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	case req.OTP == "":
		return nil, fmt.Errorf("OTP is required: %w", domain.ErrBadRequest)
	case req.Password == "":
		return nil, fmt.Errorf("password is required: %w", domain.ErrBadRequest)
	case len(req.Password) < minPasswordLen:
		return nil, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrBadRequest)
	}

	entry, ok := s.codes.Get(req.Email)
	if !ok {
		return nil, fmt.Errorf("no OTP record found for this email: %w", domain.ErrNotFound)
	}
	if entry.Code != req.OTP {
		s.codes.Delete(req.Email)
		return nil, fmt.Errorf("invalid OTP: %w", domain.ErrInvalidCredential)
	}
	if time.Now().After(entry.ExpiresAt) {
		s.codes.Delete(req.Email)
		return nil, fmt.Errorf("OTP has expired: %w", domain.ErrExpired)
	}
	s.codes.Delete(req.Email)

	if _, err := s.accounts.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email is already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	acct := &domain.Account{
		AccountID:    id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		AuthProvider: domain.ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Put(ctx, acct); err != nil {
		return nil, fmt.Errorf("create account: %v: %w", err, domain.ErrBadRequest)
	}

	// Best-effort: a failed confirmation mail does not fail registration,
	// it only changes the message returned to the client.
	confirmationSent := true
	if err := s.sendConfirmation(ctx, acct); err != nil {
		slog.Warn("failed to send email confirmation", "account_id", acct.AccountID, "err", err)
		confirmationSent = false
	}

	uname := username.Derive(req.Email)

	// Guarded mirror: a retry or a concurrent attempt may already have
	// written the profile; never overwrite it. A failed mirror write leaves
	// the account without a profile — surfaced, not rolled back.
	if existing, err := s.profiles.Get(ctx, acct.AccountID); err == nil {
		uname = existing.Username
	} else {
		p := &domain.Profile{
			UserID:        acct.AccountID,
			Email:         req.Email,
			Name:          "",
			Username:      uname,
			CreatedAt:     acct.CreatedAt,
			EmailVerified: acct.EmailVerified,
		}
		if err := s.profiles.Put(ctx, p); err != nil {
			return nil, fmt.Errorf("save profile: %v: %w", err, domain.ErrBadRequest)
		}
	}

	return &RegistrationResult{
		UserID:           acct.AccountID,
		Email:            acct.Email,
		Username:         uname,
		EmailVerified:    acct.EmailVerified,
		ConfirmationSent: confirmationSent,
	}, nil
}

func (s *service) sendConfirmation(ctx context.Context, acct *domain.Account) error {
	token, err := generateToken(32)
	if err != nil {
		return err
	}
	v := &domain.Verification{
		AccountID: acct.AccountID,
		Type:      domain.VerificationEmail,
		Code:      token,
		ExpiresAt: time.Now().Add(confirmTokenTTL).Unix(),
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendEmail(acct.Email, "Confirm your email", "Confirmation token: "+token)
}

// generateCode draws uniformly from the full 6-digit space (10^6 values,
// leading zeros allowed).
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
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
