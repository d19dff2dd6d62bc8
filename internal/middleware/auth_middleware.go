package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "userRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required"))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>"))
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token"))
			return
		}
		role, ok := models.ParseRole(claims.Role)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid role in token"))
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, role)

		c.Next()
	}
}

// RequireRoles creates a Gin middleware for role-based authorization.
// It must run after AuthMiddleware.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	required := services.Roles(allowed...)
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		callerRole, _ := role.(models.Role)

		switch services.Authorize(required, callerRole) {
		case services.Allowed:
			c.Next()
		case services.DeniedUnauthenticated:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required"))
		default:
			names := make([]string, len(allowed))
			for i, r := range allowed {
				names[i] = string(r)
			}
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"You do not have permission to access this resource. Required roles: "+strings.Join(names, ", ")))
		}
	}
}

// CurrentActor returns the authenticated caller stored by AuthMiddleware.
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return services.Actor{}, false
	}
	id, ok := userID.(int64)
	if !ok {
		return services.Actor{}, false
	}
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.Role)
	return services.Actor{UserID: id, Role: r}, true
}

// CallbackTokenHeader carries the shared secret on gateway notifications.
const CallbackTokenHeader = "X-Callback-Token"

// RequireCallbackSecret rejects gateway notifications that do not present the
// configured shared secret. An empty secret leaves the route open.
func RequireCallbackSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		token := c.GetHeader(CallbackTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			utils.LogWarn("Rejected payment callback", map[string]interface{}{"client_ip": c.ClientIP()})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid callback token"))
			return
		}
		c.Next()
	}
}
