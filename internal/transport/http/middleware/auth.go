package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/token"
)

const (
	accessCookie = "accessToken"
	principalKey = "principal"
)

// verifier is the subset of the token service the gate needs. Defined here
// (point of use) so tests can inject a fake.
type verifier interface {
	VerifyAccess(raw string) (*token.Payload, error)
}

// Auth resolves the request's bearer credential: Authorization header first,
// accessToken cookie as fallback. On success the principal is stored in the
// gin context; every protected route passes through here before touching
// owned data.
func Auth(tokens verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if v, err := c.Cookie(accessCookie); err == nil {
				raw = v
			}
		}
		if raw == "" {
			abortUnauthorized(c)
			return
		}

		payload, err := tokens.VerifyAccess(raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(principalKey, domain.Principal{UserID: payload.UserID, Email: payload.Email})
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by Auth. Handlers
// behind the middleware can rely on it being present.
func PrincipalFrom(c *gin.Context) domain.Principal {
	p, _ := c.Get(principalKey)
	principal, _ := p.(domain.Principal)
	return principal
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"message": domain.ErrUnauthorized.Message},
	})
}
