package handlers

import (
	"errors"
	"net/http"
	"time"

	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/services"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves health, stats, API docs and the bootstrap endpoint.
type SystemHandler struct {
	statsService  services.StatsService
	systemService services.SystemService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(ss services.StatsService, sys services.SystemService) *SystemHandler {
	return &SystemHandler{statsService: ss, systemService: sys}
}

// Health is the public liveness probe.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Stats returns role-scoped entity counts.
func (h *SystemHandler) Stats(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	stats, err := h.statsService.Stats(actor)
	if err != nil {
		utils.LogError(err, "Stats: Error from statsService.Stats")
		if errors.Is(err, services.ErrForbidden) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to view stats.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute stats.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SeedSuperAdmin bootstraps the first SUPER_ADMIN account. A no-op once
// one exists.
func (h *SystemHandler) SeedSuperAdmin(c *gin.Context) {
	var req services.SeedSuperAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.systemService.SeedSuperAdmin(req)
	if err != nil {
		utils.LogError(err, "SeedSuperAdmin: Error from systemService.SeedSuperAdmin")
		if errors.Is(err, services.ErrEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to seed super admin.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OpenAPI serves a static OpenAPI document describing the HTTP surface.
func (h *SystemHandler) OpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, openAPIDocument)
}

// Docs serves a Swagger UI page backed by /openapi.json.
func (h *SystemHandler) Docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}

const docsPage = `<!DOCTYPE html>
<html>
<head>
  <title>Sijuk API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/openapi.json", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`

var openAPIDocument = gin.H{
	"openapi": "3.0.3",
	"info": gin.H{
		"title":       "Sijuk Restaurant Management API",
		"version":     "1.0.0",
		"description": "Role-based restaurant, product, order and notification management.",
	},
	"paths": gin.H{
		"/health": gin.H{
			"get": gin.H{"summary": "Liveness probe", "tags": []string{"system"}},
		},
		"/stats": gin.H{
			"get": gin.H{"summary": "Role-scoped entity counts", "tags": []string{"system"}},
		},
		"/api/auth/sign-up/email": gin.H{
			"post": gin.H{"summary": "Register an account", "tags": []string{"auth"}},
		},
		"/api/auth/sign-in/email": gin.H{
			"post": gin.H{"summary": "Sign in with email and password", "tags": []string{"auth"}},
		},
		"/api/auth/get-session": gin.H{
			"get": gin.H{"summary": "Current session or null", "tags": []string{"auth"}},
		},
		"/api/v1/system/seed-super-admin": gin.H{
			"post": gin.H{"summary": "Bootstrap the first super admin", "tags": []string{"system"}},
		},
		"/api/v1/admin/restaurants": gin.H{
			"post": gin.H{"summary": "Create an owner account with their restaurant", "tags": []string{"admin"}},
			"get":  gin.H{"summary": "List all restaurants", "tags": []string{"admin"}},
		},
		"/api/v1/admin/restaurants/{id}": gin.H{
			"patch": gin.H{"summary": "Update a restaurant", "tags": []string{"admin"}},
		},
		"/api/v1/owner/restaurants": gin.H{
			"get": gin.H{"summary": "List the caller's restaurants", "tags": []string{"owner"}},
		},
		"/api/v1/owner/products": gin.H{
			"get":  gin.H{"summary": "List products of a restaurant", "tags": []string{"owner"}},
			"post": gin.H{"summary": "Create a product", "tags": []string{"owner"}},
		},
		"/api/v1/owner/products/{id}": gin.H{
			"patch":  gin.H{"summary": "Update a product", "tags": []string{"owner"}},
			"delete": gin.H{"summary": "Delete a product", "tags": []string{"owner"}},
		},
		"/api/v1/owner/stock/adjust": gin.H{
			"post": gin.H{"summary": "Adjust product stock by a signed delta", "tags": []string{"owner"}},
		},
		"/api/v1/owner/stock/movements": gin.H{
			"get": gin.H{"summary": "List the stock movement ledger", "tags": []string{"owner"}},
		},
		"/api/v1/orders": gin.H{
			"post": gin.H{"summary": "Place a point-of-sale order", "tags": []string{"orders"}},
			"get":  gin.H{"summary": "List orders of a restaurant", "tags": []string{"orders"}},
		},
		"/api/v1/orders/{id}": gin.H{
			"get": gin.H{"summary": "Fetch one order with items", "tags": []string{"orders"}},
		},
		"/api/v1/orders/{id}/status": gin.H{
			"patch": gin.H{"summary": "Advance an order along the status graph", "tags": []string{"orders"}},
		},
		"/api/v1/notifications": gin.H{
			"get": gin.H{"summary": "List the caller's notifications", "tags": []string{"notifications"}},
		},
		"/api/v1/notifications/{id}/read": gin.H{
			"patch": gin.H{"summary": "Mark a notification as read", "tags": []string{"notifications"}},
		},
	},
}
