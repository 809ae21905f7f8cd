package middleware

import (
	"context"
	"net/http"
	"strings"

	"schooltrip/models"
	"schooltrip/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// TokenValidator parses bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*utils.SessionClaims, error)
}

// UserLoader re-reads a user so revoked admins lose access immediately.
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// authenticate stores the token's claims on the context or aborts with 401.
func authenticate(c *gin.Context, tokens TokenValidator, logger *zap.Logger) bool {
	raw := bearerToken(c)
	if raw == "" {
		utils.AbortJSONError(c, http.StatusUnauthorized, "Sign in required")
		return false
	}
	claims, err := tokens.ValidateToken(raw)
	if err != nil {
		logger.Debug("Rejected session token", zap.Error(err))
		utils.AbortJSONError(c, http.StatusUnauthorized, "Invalid or expired session")
		return false
	}
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextUserRole, claims.Role)
	return true
}

// RequireUser rejects requests without a valid session token. The role on
// the context comes from the stored user, not the token.
func RequireUser(tokens TokenValidator, users UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens, logger) {
			return
		}
		userID := c.GetString(ContextUserID)
		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.Debug("Session user not found", zap.String("userId", userID), zap.Error(err))
			utils.AbortJSONError(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// RequireAdmin is RequireUser plus a stored admin role.
func RequireAdmin(tokens TokenValidator, users UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens, logger) {
			return
		}
		userID := c.GetString(ContextUserID)
		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil || !user.IsAdmin() {
			logger.Warn("Admin access denied", zap.String("userId", userID))
			utils.AbortJSONError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Set(ContextUserRole, models.RoleAdmin)
		c.Next()
	}
}
