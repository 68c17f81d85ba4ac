package domain

// Verification kinds.
const (
	VerificationEmail         = "email"
	VerificationPasswordReset = "password_reset"
)

// Verification stores email-confirmation and password-reset tokens.
// PK: account_id, SK: type. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
//
// Registration OTP codes do NOT live here — they are held in the in-process
// otpstore and are lost on restart by design.
type Verification struct {
	AccountID string `json:"account_id" dynamodbav:"account_id"`
	Type      string `json:"type" dynamodbav:"type"` // "email" | "password_reset"
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
