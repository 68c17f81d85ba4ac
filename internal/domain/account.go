package domain

import "time"

// Auth providers recorded on an account.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Account is the identity record: credentials, email-verification state and
// display name. It is the authentication source of truth; profile data the
// client reads lives in Profile.
type Account struct {
	AccountID     string    `json:"id" dynamodbav:"account_id"`
	Email         string    `json:"email" dynamodbav:"email"`
	PasswordHash  string    `json:"-" dynamodbav:"password_hash"`
	DisplayName   string    `json:"display_name,omitempty" dynamodbav:"display_name"`
	AuthProvider  string    `json:"auth_provider" dynamodbav:"auth_provider"` // "password" | "google"
	GoogleSub     string    `json:"-" dynamodbav:"google_sub"`
	EmailVerified bool      `json:"email_verified" dynamodbav:"email_verified"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}
