package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/workhub-contracts/internal/auth"
	"github.com/nurpe/workhub-contracts/internal/model"
)

const principalKey = "principal"

// Auth extracts the bearer token, validates it, and stores the principal in
// the request context.
func Auth(parser *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := parser.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	raw, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := raw.(model.Principal)
	return principal, ok
}
