package handler

import (
	"net/http"

	"commerce-service/internal/middleware"
	"commerce-service/internal/model"
	"commerce-service/internal/tenant"
	"commerce-service/pkg/database"
	"commerce-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ShopRequest defines the structure for shop creation/update requests
type ShopRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// ListShops handles retrieving all shops for the current tenant
func ListShops(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var shops []model.Shop
	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).Find(&shops)
	if result.Error != nil {
		log.Error("Failed to list shops", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve shops"})
	}

	return c.JSON(http.StatusOK, shops)
}

// GetShop handles retrieving a single shop by ID
func GetShop(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	var shop model.Shop
	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&shop, id)
	if result.Error != nil {
		log.Warn("Shop not found", zap.String("shop_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
	}

	return c.JSON(http.StatusOK, shop)
}

// CreateShop handles creating a new shop
func CreateShop(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context is required"})
	}

	var req ShopRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "shop name is required"})
	}

	status := model.ShopStatusActive
	if req.Status != "" {
		parsed, err := model.ParseShopStatus(req.Status)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		status = parsed
	}

	// Shop names are unique per tenant
	var count int64
	database.GetDB().WithContext(ctx).Model(&model.Shop{}).
		Scopes(tenant.Scope(ctx)).
		Where("name = ?", req.Name).
		Count(&count)
	if count > 0 {
		log.Warn("Shop with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Shop with this name already exists"})
	}

	shop := model.Shop{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}

	result := database.GetDB().WithContext(ctx).Create(&shop)
	if result.Error != nil {
		log.Error("Failed to create shop", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create shop"})
	}

	log.Info("Shop created", zap.Uint("shop_id", shop.ID), zap.String("name", shop.Name))
	return c.JSON(http.StatusCreated, shop)
}

// UpdateShop handles updating an existing shop
func UpdateShop(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	var req ShopRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var shop model.Shop
	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&shop, id)
	if result.Error != nil {
		log.Warn("Shop not found for update", zap.String("shop_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
	}

	if req.Name != "" && req.Name != shop.Name {
		var count int64
		database.GetDB().WithContext(ctx).Model(&model.Shop{}).
			Scopes(tenant.Scope(ctx)).
			Where("name = ? AND id != ?", req.Name, shop.ID).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Shop with this name already exists"})
		}
		shop.Name = req.Name
	}
	if req.Description != "" {
		shop.Description = req.Description
	}
	if req.Status != "" {
		parsed, err := model.ParseShopStatus(req.Status)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		shop.Status = parsed
	}

	result = database.GetDB().WithContext(ctx).Save(&shop)
	if result.Error != nil {
		log.Error("Failed to update shop", zap.String("shop_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update shop"})
	}

	log.Info("Shop updated", zap.Uint("shop_id", shop.ID), zap.String("status", string(shop.Status)))
	return c.JSON(http.StatusOK, shop)
}

// DeleteShop handles deleting a shop (soft delete)
func DeleteShop(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).Delete(&model.Shop{}, id)
	if result.Error != nil {
		log.Error("Failed to delete shop", zap.String("shop_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete shop"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
	}

	log.Info("Shop deleted", zap.String("shop_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Shop deleted successfully"})
}
