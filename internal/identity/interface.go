// Package identity wraps the external identity provider: account
// creation, sign-in/out, password reset and the current-session
// subscription the cache lifecycle hangs off.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid or revoked")
	ErrResetInvalid       = errors.New("password reset token is invalid or expired")
)

// Session is an authenticated session for one user
type Session struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider is the identity service contract. The concrete service issues
// JWTs against credential documents; MockProvider covers tests.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error

	// RequestPasswordReset returns a one-time reset token for the account.
	// Delivery of the token is the caller's concern.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error

	// ValidateToken resolves a token to the user id it belongs to.
	ValidateToken(ctx context.Context, token string) (string, error)
}

// Ensure Service implements Provider
var _ Provider = (*Service)(nil)
