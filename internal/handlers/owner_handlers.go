package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/models"
	"sijuk_backend/internal/services"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OwnerHandler holds the catalog service for the owner-facing endpoints.
type OwnerHandler struct {
	catalogService services.CatalogService
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(cs services.CatalogService) *OwnerHandler {
	return &OwnerHandler{catalogService: cs}
}

// respondCatalogError maps the shared catalog error set onto HTTP responses.
func respondCatalogError(c *gin.Context, err error, action string) {
	utils.LogError(err, action)
	switch {
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to perform this action.", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request data.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Request failed.", "Internal error"))
	}
}

// MyRestaurants handles listing the caller's restaurants.
func (h *OwnerHandler) MyRestaurants(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	restaurants, err := h.catalogService.MyRestaurants(actor)
	if err != nil {
		respondCatalogError(c, err, "MyRestaurants: Error from catalogService")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": restaurants})
}

// ListProducts handles listing products of one restaurant.
func (h *OwnerHandler) ListProducts(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "restaurant_id query parameter is required.", ""))
		return
	}

	products, err := h.catalogService.ListProducts(actor, restaurantID)
	if err != nil {
		respondCatalogError(c, err, "ListProducts: Error from catalogService")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// CreateProduct handles creating a menu product.
func (h *OwnerHandler) CreateProduct(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(actor, req)
	if err != nil {
		respondCatalogError(c, err, "CreateProduct: Error from catalogService")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles partial product updates.
func (h *OwnerHandler) UpdateProduct(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	productID := c.Param("id")

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(actor, productID, patch)
	if err != nil {
		respondCatalogError(c, err, "UpdateProduct: Error from catalogService for ID "+productID)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles product deletion. Deleting a missing product
// still reports ok.
func (h *OwnerHandler) DeleteProduct(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	productID := c.Param("id")

	if err := h.catalogService.DeleteProduct(actor, productID); err != nil {
		respondCatalogError(c, err, "DeleteProduct: Error from catalogService for ID "+productID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdjustStock handles signed stock adjustments.
func (h *OwnerHandler) AdjustStock(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.catalogService.AdjustStock(actor, req)
	if err != nil {
		respondCatalogError(c, err, "AdjustStock: Error from catalogService")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListStockMovements handles fetching the stock ledger for a product or a
// whole restaurant.
func (h *OwnerHandler) ListStockMovements(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	query := services.StockMovementsQuery{
		RestaurantID: c.Query("restaurant_id"),
		ProductID:    c.Query("product_id"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit format.", "limit must be a positive integer"))
			return
		}
		query.Limit = limit
	}

	movements, err := h.catalogService.ListStockMovements(actor, query)
	if err != nil {
		respondCatalogError(c, err, "ListStockMovements: Error from catalogService")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movements})
}
