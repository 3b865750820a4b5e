package handler

import (
	"net/http"

	"commerce-service/internal/middleware"
	"commerce-service/internal/service"
	"commerce-service/pkg/database"
	"commerce-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateOrder handles order creation against a shop
func CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var in service.CreateOrderInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// Buyer identity comes from the token, never from the request body
	if buyerID, ok := middleware.GetBuyerProfileIDFromContext(c); ok {
		in.BuyerProfileID = &buyerID
	}

	orders := service.NewOrderService(database.GetDB())
	order, err := orders.Create(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles retrieving the tenant's orders
func ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var shopID uint
	if err := echo.QueryParamsBinder(c).Uint("shop_id", &shopID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop_id"})
	}

	orders := service.NewOrderService(database.GetDB())
	list, err := orders.List(ctx, shopID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetOrder handles retrieving a single order with its items
func GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := bindOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	orders := service.NewOrderService(database.GetDB())
	order, err := orders.Get(ctx, orderID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

// CancelOrder transitions an order to cancelled and restores its stock
func CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := bindOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	orders := service.NewOrderService(database.GetDB())
	order, err := orders.Cancel(ctx, orderID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

// CompleteOrder transitions an order to completed
func CompleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := bindOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	orders := service.NewOrderService(database.GetDB())
	order, err := orders.Complete(ctx, orderID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func bindOrderID(c echo.Context) (uint, error) {
	var orderID uint
	err := echo.PathParamsBinder(c).Uint("id", &orderID).BindError()
	return orderID, err
}
