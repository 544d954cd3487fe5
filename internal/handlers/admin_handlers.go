package handlers

import (
	"errors"
	"net/http"

	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/models"
	"sijuk_backend/internal/services"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler holds the admin service.
type AdminHandler struct {
	adminService services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

// CreateOwnerWithRestaurant handles the combined owner + restaurant creation.
func (h *AdminHandler) CreateOwnerWithRestaurant(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	var req services.CreateOwnerRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.adminService.CreateOwnerWithRestaurant(actor, req)
	if err != nil {
		utils.LogError(err, "CreateOwnerWithRestaurant: Error from adminService")
		switch {
		case errors.Is(err, services.ErrForbidden):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to manage restaurants.", err.Error()))
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Owner email already registered.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid owner or restaurant data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create owner and restaurant.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListRestaurants handles fetching all restaurants.
func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	restaurants, err := h.adminService.ListRestaurants(actor)
	if err != nil {
		utils.LogError(err, "ListRestaurants: Error from adminService")
		if errors.Is(err, services.ErrForbidden) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to list restaurants.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list restaurants.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": restaurants})
}

// UpdateRestaurant handles partial restaurant updates.
func (h *AdminHandler) UpdateRestaurant(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	restaurantID := c.Param("id")

	var patch models.RestaurantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	restaurant, err := h.adminService.UpdateRestaurant(actor, restaurantID, patch)
	if err != nil {
		utils.LogError(err, "UpdateRestaurant: Error from adminService for ID "+restaurantID)
		switch {
		case errors.Is(err, services.ErrForbidden):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to update restaurants.", err.Error()))
		case errors.Is(err, services.ErrRestaurantNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Restaurant not found.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update restaurant.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, restaurant)
}
