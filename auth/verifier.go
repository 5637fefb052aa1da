package auth

import (
	"context"
	"fmt"
)

// Provider identifies an identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderUnknown  Provider = "unknown"
)

// Claims is the verified fact set about an authenticated identity.
// Email and Name default to the empty string when the provider omits them.
type Claims struct {
	Subject  string
	Email    string
	Name     string
	Provider Provider
}

// UserID returns the canonical user identifier: email when present, otherwise
// the provider-issued subject id. Empty means no usable identity.
func (c *Claims) UserID() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}

// VerificationError means a token failed verification. It is an expected
// authentication failure, not a fault; handlers map it to a 401.
type VerificationError struct {
	Provider Provider
	Reason   string
	Err      error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s token verification failed: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s token verification failed: %s", e.Provider, e.Reason)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Verifier validates a bearer token against one identity provider.
// Implementations: GoogleVerifier, FacebookVerifier.
type Verifier interface {
	// Provider returns the identity provider this verifier speaks for.
	Provider() Provider

	// Verify validates the raw token and returns its claims, or a
	// *VerificationError describing why the token was rejected.
	Verify(ctx context.Context, token string) (*Claims, error)
}
