package auth

import (
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog/log"
)

const facebookTokenPrefix = "EAA"

// Classification is the result of sniffing a bearer token's shape.
// Confirmed is only ever true for Google, when the token's payload segment
// decoded cleanly and named the Google authority.
type Classification struct {
	Provider  Provider
	Confirmed bool
}

// Classify guesses which provider issued a bearer token without fully parsing
// it. Facebook access tokens start with "EAA" and contain no dots; Google ID
// tokens are compact JWTs (three dot-separated segments). Everything else is
// Unknown and gets tried against every verifier.
func Classify(token string) Classification {
	if strings.HasPrefix(token, facebookTokenPrefix) && !strings.Contains(token, ".") {
		return Classification{Provider: ProviderFacebook}
	}

	segments := strings.Split(token, ".")
	if len(segments) == 3 && segments[0] != "" && segments[1] != "" && segments[2] != "" {
		return Classification{
			Provider:  ProviderGoogle,
			Confirmed: payloadNamesGoogle(segments[1]),
		}
	}

	return Classification{Provider: ProviderUnknown}
}

// payloadNamesGoogle base64-decodes a JWT payload segment and looks for the
// Google issuer substring. Decode failures are logged but deliberately
// fail open to "not confirmed" so the resolver still tries every verifier.
func payloadNamesGoogle(segment string) bool {
	decoded, err := base64.URLEncoding.DecodeString(pad(segment))
	if err != nil {
		log.Debug().Err(err).Msg("Failed to decode JWT payload segment during classification")
		return false
	}

	return strings.Contains(string(decoded), "accounts.google.com")
}

// pad restores standard base64 padding stripped by compact JWT serialization.
func pad(segment string) string {
	if rem := len(segment) % 4; rem != 0 {
		return segment + strings.Repeat("=", 4-rem)
	}
	return segment
}
