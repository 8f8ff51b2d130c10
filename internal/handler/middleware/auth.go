package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/party"
	"stayledger/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxCallerKey     = "caller_address"
	ctxCallerRoleKey = "caller_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Access token required"},
			})
			c.Abort()
			return
		}

		address, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Invalid or expired token"},
			})
			c.Abort()
			return
		}

		SetCaller(c, address, role)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...party.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetCallerRole(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "Internal server error"},
			})
			c.Abort()
			return
		}

		if !slices.Contains(roles, role) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "Insufficient permissions"},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SetCaller records the authenticated caller on the request context.
func SetCaller(c *gin.Context, address booking.Address, role party.Role) {
	c.Set(ctxCallerKey, address)
	c.Set(ctxCallerRoleKey, role)
	c.Set("jwt_claims", map[string]any{
		"address": address.String(),
		"role":    string(role),
	})
}

func GetCaller(c *gin.Context) (booking.Address, bool) {
	v, exists := c.Get(ctxCallerKey)
	if !exists {
		return booking.Address{}, false
	}
	address, ok := v.(booking.Address)
	return address, ok && !address.IsZero()
}

func GetCallerRole(c *gin.Context) (party.Role, bool) {
	v, exists := c.Get(ctxCallerRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(party.Role)
	return role, ok
}
