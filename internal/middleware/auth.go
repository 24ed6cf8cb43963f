package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chainchat-server/internal/auth"
	"chainchat-server/internal/identity"
)

const addressContextKey = "address"

func AddressFromContext(c *gin.Context) (identity.Address, bool) {
	value, ok := c.Get(addressContextKey)
	if !ok {
		return identity.Zero, false
	}
	addr, ok := value.(identity.Address)
	return addr, ok && !addr.IsZero()
}

func RequireAuth(cfg auth.TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		addr, err := auth.VerifyToken(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		c.Set(addressContextKey, addr)
		c.Next()
	}
}
