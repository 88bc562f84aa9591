package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// AuthHandler handles login, logout and the current-user endpoint.
type AuthHandler struct {
	BaseHandler
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		auth:        auth,
	}
}

// Login authenticates a user and issues a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Login")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// The cookie is the primary credential; the token is echoed for
	// API clients that prefer the Authorization header.
	c.SetCookie(SessionCookieName, result.Token, int(result.TTL.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.LogRequest(c, "Logout")

	token := c.GetString("session_token")
	if token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			utils.GetLogger(c, h.logger).Warn("failed to destroy session", "error", err)
		}
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}
