package handler

import (
	"net/http"

	"commerce-service/internal/service"

	"github.com/labstack/echo/v4"
)

// respondServiceError translates a structured service failure into the JSON
// shape the API exposes: a machine-readable code plus the message list
func respondServiceError(c echo.Context, err error) error {
	if e, ok := service.AsError(err); ok {
		return c.JSON(e.HTTPStatus, echo.Map{
			"error_code": e.Code,
			"errors":     e.Messages,
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error_code": service.CodeUnexpected,
		"errors":     []string{"internal server error"},
	})
}
