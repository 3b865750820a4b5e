package handler

import (
	"net/http"

	"commerce-service/internal/middleware"
	"commerce-service/internal/model"
	"commerce-service/internal/service"
	"commerce-service/internal/tenant"
	"commerce-service/pkg/database"
	"commerce-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	ShopID      uint            `json:"shop_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         *string         `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	Status      string          `json:"status"`
}

// StockAdjustmentRequest drives the stock ledger directly
type StockAdjustmentRequest struct {
	Operation string `json:"operation"` // "increase" or "decrease"
	Quantity  int    `json:"quantity"`
}

// ListProducts handles retrieving all products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	query := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx))

	if status := c.QueryParam("status"); status != "" {
		parsed, err := model.ParseProductStatus(status)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		query = query.Where("status = ?", parsed)
	}
	if shopID := c.QueryParam("shop_id"); shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}

	var products []model.Product
	result := query.Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context is required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "product name is required"})
	}
	if !req.Price.IsPositive() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "price must be greater than 0"})
	}
	if req.Stock < 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "stock_quantity cannot be negative"})
	}

	// The shop must belong to the current tenant
	var shop model.Shop
	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&shop, req.ShopID)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
	}

	status := model.ProductStatusActive
	if req.Status != "" {
		parsed, err := model.ParseProductStatus(req.Status)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		status = parsed
	}
	if req.Stock == 0 {
		status = model.ProductStatusOutOfStock
	}

	// SKU is unique within a shop
	if req.SKU != nil {
		var count int64
		database.GetDB().WithContext(ctx).Model(&model.Product{}).
			Where("shop_id = ? AND sku = ?", shop.ID, *req.SKU).
			Count(&count)
		if count > 0 {
			log.Warn("Product with this SKU already exists", zap.String("sku", *req.SKU))
			return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this SKU already exists"})
		}
	}

	product := model.Product{
		TenantID:      tenantID,
		ShopID:        shop.ID,
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.Stock,
		Status:        status,
	}

	result = database.GetDB().WithContext(ctx).Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock_quantity", product.StockQuantity))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product. Stock is deliberately
// not updatable here; all stock changes go through the stock ledger endpoint.
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var product model.Product
	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if !req.Price.IsZero() {
		if !req.Price.IsPositive() {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "price must be greater than 0"})
		}
		product.Price = req.Price
	}
	if req.Status != "" {
		parsed, err := model.ParseProductStatus(req.Status)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		product.Status = parsed
	}

	result = database.GetDB().WithContext(ctx).Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	log.Info("Product updated", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	result := database.GetDB().WithContext(ctx).Scopes(tenant.Scope(ctx)).Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	log.Info("Product deleted", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// AdjustStock drives the stock ledger for a product
func AdjustStock(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	var productID uint
	if err := echo.PathParamsBinder(c).Uint("id", &productID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req StockAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	stock := service.NewStockService(database.GetDB())

	var (
		product *model.Product
		err     error
	)
	switch req.Operation {
	case "increase":
		product, err = stock.Increase(ctx, productID, req.Quantity)
	case "decrease":
		product, err = stock.Decrease(ctx, productID, req.Quantity)
	default:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "operation must be increase or decrease"})
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	log.Info("Stock adjusted",
		zap.String("product_id", id),
		zap.String("operation", req.Operation),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock_quantity", product.StockQuantity))
	return c.JSON(http.StatusOK, product)
}
