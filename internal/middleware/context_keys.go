package middleware

import (
	"context"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Keys used to store the authenticated identity in the request context.
const (
	userIDKey   = contextKey("userID")
	usernameKey = contextKey("username")
	roleKey     = contextKey("role")
)

// Identity is the authenticated caller.
type Identity struct {
	UserID   string
	Username string
	Role     domain.UserRole
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.UserID)
	ctx = context.WithValue(ctx, usernameKey, id.Username)
	return context.WithValue(ctx, roleKey, id.Role)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetIdentityFromContext retrieves the full authenticated identity.
func GetIdentityFromContext(c *gin.Context) (Identity, bool) {
	ctx := c.Request.Context()
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return Identity{}, false
	}
	username, _ := ctx.Value(usernameKey).(string)
	role, _ := ctx.Value(roleKey).(domain.UserRole)
	return Identity{UserID: userID, Username: username, Role: role}, true
}
