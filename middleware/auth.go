package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/models"
	"github.com/shamsy-solar/shamsy-api/utils"
)

// Context keys set by RequireAuth
const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
	ContextUserKey   = "current_user"
)

// RequireAuth validates the Bearer session token and loads the authenticated
// user into the request context. The role is always read from the stored user
// record, not the token, so role changes take effect immediately.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "INVALID_AUTH_HEADER", "Authorization header must be a Bearer token")
			return
		}

		userID, _, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Session token is invalid or expired")
			return
		}

		db := config.GetDB()
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			abortUnauthorized(c, "UNKNOWN_USER", "Session user no longer exists")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Set(ContextUserKey, &user)

		c.Next()
	}
}

// RequireRoles gates a route to the given roles. It must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRole(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Could not extract user information")
			return
		}

		if !CanPerform(role, roles...) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CanPerform reports whether role is one of the roles allowed to perform an
// operation. The authorization policy lives entirely on this caller side;
// entity services never inspect roles.
func CanPerform(role string, allowed ...string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// GetUserID extracts the authenticated user ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userID, ok := value.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a uint"}
	}

	return userID, nil
}

// GetUserRole extracts the authenticated user's role from the Gin context
func GetUserRole(c *gin.Context) (string, error) {
	value, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	role, ok := value.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not a string"}
	}

	return role, nil
}

// GetCurrentUser extracts the authenticated user record from the Gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
