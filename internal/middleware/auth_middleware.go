package middleware

import (
	"net/http"
	"strings"

	"sijuk_backend/internal/models"
	"sijuk_backend/internal/repositories"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie the sign-in endpoint sets; the Bearer
// header takes precedence when both are present.
const SessionCookieName = "session_token"

const actorContextKey = "actor"

// extractToken pulls the session token from the Authorization header or
// the session cookie. A header that is not Bearer-shaped is ignored so a
// stray non-Bearer header cannot shadow a valid cookie session.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware creates a Gin middleware that authenticates the session
// and loads the caller's profile. The stored profile, not the token claim,
// decides the role; a stale token cannot keep a revoked role alive.
func AuthMiddleware(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"Authentication required", "Provide a Bearer token or session cookie"))
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"Invalid or expired session", err.Error()))
			return
		}

		profile, err := userRepo.GetProfileByID(claims.UserID)
		if err != nil {
			utils.LogError(err, "AuthMiddleware: failed to load profile for user "+claims.UserID)
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"Account profile not found", ""))
			return
		}

		actor := models.Actor{UserID: profile.ID, Role: profile.Role}
		c.Set(actorContextKey, actor)
		c.Set("userID", actor.UserID)
		c.Set("userRole", string(actor.Role))

		c.Next()
	}
}

// GetActor returns the authenticated actor set by AuthMiddleware.
func GetActor(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}

// RequirePermission creates a Gin middleware that gates a route group on
// one entry of the capability table. AuthMiddleware must run first.
func RequirePermission(op models.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"No authenticated account. Ensure AuthMiddleware runs first.", ""))
			return
		}

		if !actor.Role.Can(op) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"You do not have permission to access this resource.", "operation: "+string(op)))
			return
		}

		c.Next()
	}
}
