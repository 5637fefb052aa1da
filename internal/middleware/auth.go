package middleware

import (
	"strings"

	"imagevault/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey = "auth.userID"
	claimsKey = "auth.claims"
)

// Authentication extracts the bearer token, resolves it to an identity, and
// stores the canonical user id in the request context. Requests without a
// resolvable identity continue unauthenticated; handlers that need an
// identity reject them with a 401.
func Authentication(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("Bearer token did not resolve to an identity")
			c.Next()
			return
		}

		userID := claims.UserID()
		if userID == "" {
			log.Warn().Str("provider", string(claims.Provider)).Msg("Verified token carries no usable identity")
			c.Next()
			return
		}

		c.Set(userIDKey, userID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentUserID returns the canonical user id resolved for this request.
func CurrentUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// CurrentClaims returns the full claim set resolved for this request.
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
