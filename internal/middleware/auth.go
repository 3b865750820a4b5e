package middleware

import (
	"net/http"
	"strings"

	"commerce-service/internal/tenant"
	"commerce-service/pkg/jwtutil"
	"commerce-service/pkg/logger"
	"commerce-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and installs the tenant scope into
// the request context. Every core operation downstream reads the tenant from
// that context value; there is no process-wide current tenant.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		if claims.TenantID == nil {
			log.Warn("JWT token does not contain tenant_id")
			prometheus.RecordTenantContextMissing()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id is required in the token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("tenant_id", *claims.TenantID)
		c.Set("tenant_name", claims.TenantName)
		c.Set("user_role", claims.Role)
		if claims.BuyerProfileID != nil {
			c.Set("buyer_profile_id", *claims.BuyerProfileID)
		}

		// Thread the tenant scope through the request context
		ctx := tenant.NewContext(c.Request().Context(), *claims.TenantID)
		c.SetRequest(c.Request().WithContext(ctx))

		log.Debug("Request authenticated with tenant context",
			zap.Uint("tenant_id", *claims.TenantID),
			zap.String("tenant_name", claims.TenantName),
			zap.String("role", claims.Role))

		return next(c)
	}
}

// GetTenantIDFromContext retrieves the tenant ID from the echo context.
// Returns 0, false if tenant ID is not found
func GetTenantIDFromContext(c echo.Context) (uint, bool) {
	tenantID, ok := c.Get("tenant_id").(uint)
	return tenantID, ok
}

// GetBuyerProfileIDFromContext retrieves the buyer profile ID from the echo
// context, when the token carried one
func GetBuyerProfileIDFromContext(c echo.Context) (uint, bool) {
	id, ok := c.Get("buyer_profile_id").(uint)
	return id, ok
}
