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

// CreatePayment handles attaching a payment to an order
func CreatePayment(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	orderID, err := bindOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	buyerProfileID, ok := middleware.GetBuyerProfileIDFromContext(c)
	if !ok {
		log.Warn("Payment attempted without buyer profile")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "a buyer profile is required to pay for an order"})
	}

	var in service.CreatePaymentInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	payments := service.NewPaymentService(database.GetDB())
	payment, err := payments.Create(ctx, orderID, buyerProfileID, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetPayment handles retrieving the payment bound to an order
func GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := bindOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	payments := service.NewPaymentService(database.GetDB())
	payment, err := payments.GetByOrder(ctx, orderID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}
