package domain

import "time"

// Profile mirrors the account into the document the client reads.
// Keyed by the account id. Name starts empty and is filled after
// registration; Username is generated once and never changes.
// Registration is the only writer allowed to create an account and its
// profile, and it must not leave one without the other.
type Profile struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Email         string    `json:"email" dynamodbav:"email"`
	Name          string    `json:"name" dynamodbav:"name"`
	Username      string    `json:"username" dynamodbav:"username"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	EmailVerified bool      `json:"emailVerified" dynamodbav:"email_verified"`
}
