package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rufuslabs/rufus/models"
)

// identityKey is the context key under which authenticated requests carry
// their API key. The rate limiter uses it to bucket traffic per caller.
const identityKey = "rufus_identity"

// Auth returns middleware that gates requests on a configured API key,
// presented either as an X-API-Key header or an Authorization bearer
// token. An empty key list disables the gate entirely, which is the
// local-development posture.
func Auth(apiKeys []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(apiKeys))
	for _, key := range apiKeys {
		if key = strings.TrimSpace(key); key != "" {
			allowed[key] = struct{}{}
		}
	}

	if len(allowed) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := presentedKey(c.Request)
		if key == "" {
			abortUnauthorized(c, "no API key presented: use X-API-Key or Authorization: Bearer <key>")
			return
		}
		if _, ok := allowed[key]; !ok {
			abortUnauthorized(c, "unrecognized API key")
			return
		}

		c.Set(identityKey, key)
		c.Next()
	}
}

// presentedKey pulls the caller's credential out of the request headers.
// X-API-Key wins over a bearer token when both are present.
func presentedKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ScrapeResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeUnauthorized,
			Message: msg,
		},
	})
}
