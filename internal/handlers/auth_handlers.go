package handlers

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/services"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the /api/auth surface. With an external auth service
// configured it becomes a reverse proxy; otherwise the embedded identity
// endpoints handle sign-up, sign-in and session lookup locally.
type AuthHandler struct {
	authService services.AuthService
	remoteURL   *url.URL
	proxy       *httputil.ReverseProxy
}

// NewAuthHandler creates a new AuthHandler. remoteURL may be empty, which
// selects the embedded identity endpoints.
func NewAuthHandler(as services.AuthService, remoteURL string) (*AuthHandler, error) {
	h := &AuthHandler{authService: as}
	if remoteURL != "" {
		target, err := url.Parse(remoteURL)
		if err != nil {
			return nil, err
		}
		h.remoteURL = target
		h.proxy = httputil.NewSingleHostReverseProxy(target)
	}
	return h, nil
}

// RegisterRoutes mounts the auth endpoints on the given group (/api/auth).
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	if h.proxy != nil {
		group.Any("/*path", h.ProxyAuth)
		return
	}
	group.POST("/sign-up/email", h.SignUp)
	group.POST("/sign-in/email", h.SignIn)
	group.GET("/get-session", h.GetSession)

	// Aliases kept for clients that use the short forms.
	group.POST("/register", h.SignUp)
	group.POST("/login", h.SignIn)
}

// ProxyAuth forwards the request to the external auth service, rewriting
// the login/register aliases to the canonical endpoints.
func (h *AuthHandler) ProxyAuth(c *gin.Context) {
	path := c.Param("path")
	switch strings.TrimSuffix(path, "/") {
	case "/login":
		path = "/sign-in/email"
	case "/register":
		path = "/sign-up/email"
	}
	c.Request.URL.Path = strings.TrimSuffix(h.remoteURL.Path, "/") + path
	c.Request.Host = h.remoteURL.Host
	h.proxy.ServeHTTP(c.Writer, c.Request)
}

// SignUp handles account registration.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req services.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.SignUp(req)
	if err != nil {
		utils.LogError(err, "SignUp: Error from authService.SignUp")
		if errors.Is(err, services.ErrEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register.", "Internal error"))
		}
		return
	}

	h.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusCreated, resp)
}

// SignIn handles credential login.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req services.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.SignIn(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", ""))
		} else {
			utils.LogError(err, "SignIn: Error from authService.SignIn")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to sign in.", "Internal error"))
		}
		return
	}

	h.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

// GetSession returns the current session, or nulls when unauthenticated.
// This mirrors how web clients poll for a session; an invalid token is not
// an error here.
func (h *AuthHandler) GetSession(c *gin.Context) {
	token := ""
	authHeader := c.GetHeader("Authorization")
	if parts := strings.Split(authHeader, " "); len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		token = parts[1]
	} else if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie
	}

	if token == "" {
		c.JSON(http.StatusOK, gin.H{"user": nil, "session": nil})
		return
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil, "session": nil})
		return
	}

	user, err := h.authService.GetSession(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusOK, gin.H{"user": nil, "session": nil})
			return
		}
		utils.LogError(err, "GetSession: Error from authService.GetSession")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load session.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"session": gin.H{
			"user_id":    user.ID,
			"expires_at": claims.ExpiresAt,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, int(utils.SessionTokenTTL.Seconds()), "/", "", false, true)
}
