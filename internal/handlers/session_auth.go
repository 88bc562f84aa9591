package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/services"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// SessionAuthMiddleware resolves session tokens into users and
// enforces the student access gate.
type SessionAuthMiddleware struct {
	auth     services.AuthService
	sessions *cache.SessionStore
}

func NewSessionAuthMiddleware(auth services.AuthService, sessions *cache.SessionStore) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{auth: auth, sessions: sessions}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	// Bearer tokens serve API clients without cookie jars.
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AuthMiddleware requires a valid session and loads the user into the
// request context. Students are run through the subscription gate on
// every request; a denial ends the session immediately.
func (m *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
			c.Abort()
			return
		}

		user, err := m.auth.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, cache.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "session expired or invalid"})
			} else {
				c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
			}
			c.Abort()
			return
		}

		if err := m.auth.EvaluateStudentAccess(c.Request.Context(), user); err != nil {
			m.sessions.Delete(c.Request.Context(), token)
			c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Set("session_token", token)

		c.Next()
	}
}

// RequireRoleMiddleware restricts a route group to the given roles.
func (m *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "insufficient permissions"})
		c.Abort()
	}
}

// GetUserFromContext returns the authenticated user set by AuthMiddleware.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	v, exists := c.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil, errors.New("invalid user in context")
	}
	return user, nil
}

// GetUserIDFromContext returns the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user not found in context")
	}
	id, ok := v.(uint)
	if !ok {
		return 0, errors.New("invalid user id in context")
	}
	return id, nil
}

// GetUserRoleFromContext returns the authenticated user's role.
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	v, exists := c.Get("user_role")
	if !exists {
		return "", errors.New("role not found in context")
	}
	role, ok := v.(models.UserRole)
	if !ok {
		return "", errors.New("invalid role in context")
	}
	return role, nil
}
