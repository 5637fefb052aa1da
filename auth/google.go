package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultGoogleJWKSURL is Google's published signing-key endpoint.
const DefaultGoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// Google issues tokens under both the bare and the https issuer form.
var googleIssuers = []string{
	"accounts.google.com",
	"https://accounts.google.com",
}

const googleClockSkew = 5 * time.Minute

// googleIDClaims is the subset of Google ID token claims we consume.
type googleIDClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// GoogleVerifier validates Google ID tokens: signature against Google's JWKS,
// issuer, audience, and expiry with a 5-minute skew allowance.
type GoogleVerifier struct {
	clientID string
	jwks     keyfunc.Keyfunc
}

// NewGoogleVerifier builds a verifier for the given OAuth client ID. The JWKS
// is fetched eagerly and kept fresh in the background; a failed initial fetch
// is a startup error, not a per-request one.
func NewGoogleVerifier(ctx context.Context, clientID, jwksURL string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client ID cannot be empty")
	}
	if jwksURL == "" {
		jwksURL = DefaultGoogleJWKSURL
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load google signing keys from %s: %w", jwksURL, err)
	}

	return &GoogleVerifier{
		clientID: clientID,
		jwks:     jwks,
	}, nil
}

func (v *GoogleVerifier) Provider() Provider {
	return ProviderGoogle
}

// Verify validates the token and returns its identity claims.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &googleIDClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithLeeway(googleClockSkew),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &VerificationError{
			Provider: ProviderGoogle,
			Reason:   "invalid token",
			Err:      err,
		}
	}

	if !parsed.Valid {
		return nil, &VerificationError{
			Provider: ProviderGoogle,
			Reason:   "invalid token",
		}
	}

	if !isGoogleIssuer(claims.Issuer) {
		return nil, &VerificationError{
			Provider: ProviderGoogle,
			Reason:   fmt.Sprintf("unexpected issuer %q", claims.Issuer),
		}
	}

	return &Claims{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Provider: ProviderGoogle,
	}, nil
}

func isGoogleIssuer(issuer string) bool {
	for _, iss := range googleIssuers {
		if issuer == iss {
			return true
		}
	}
	return false
}
