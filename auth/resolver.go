package auth

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Resolver turns a raw bearer token into verified claims by classifying it
// and dispatching to the registered verifiers in priority order.
type Resolver struct {
	verifiers []Verifier
}

// NewResolver registers verifiers in priority order; when the classifier is
// unsure, earlier verifiers are tried first and the first success wins.
func NewResolver(verifiers ...Verifier) *Resolver {
	return &Resolver{
		verifiers: verifiers,
	}
}

// Resolve verifies the token and returns its claims. A Facebook-shaped token
// only goes to the Facebook verifier; a confirmed Google token only to the
// Google verifier; everything else is tried against all verifiers in order.
// When every candidate rejects, the last rejection is returned.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, &VerificationError{
			Provider: ProviderUnknown,
			Reason:   "empty token",
		}
	}

	classification := Classify(token)

	candidates := r.verifiers
	switch {
	case classification.Provider == ProviderFacebook:
		candidates = r.withProvider(ProviderFacebook)
	case classification.Provider == ProviderGoogle && classification.Confirmed:
		candidates = r.withProvider(ProviderGoogle)
	}

	if len(candidates) == 0 {
		return nil, &VerificationError{
			Provider: classification.Provider,
			Reason:   "no verifier registered for provider",
		}
	}

	var lastErr error
	for _, v := range candidates {
		claims, err := v.Verify(ctx, token)
		if err == nil {
			return claims, nil
		}

		log.Debug().
			Err(err).
			Str("provider", string(v.Provider())).
			Msg("Verifier rejected token")
		lastErr = err
	}

	return nil, lastErr
}

func (r *Resolver) withProvider(p Provider) []Verifier {
	matched := make([]Verifier, 0, 1)
	for _, v := range r.verifiers {
		if v.Provider() == p {
			matched = append(matched, v)
		}
	}
	return matched
}
