package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edulink/school-system/internal/api/metrics"
	"github.com/edulink/school-system/internal/core/domain"
)

// RBAC enforces role-based access control over the identity injected by Auth.
func RBAC(allowedTypes ...domain.UserType) echo.MiddlewareFunc {
	allowed := make(map[domain.UserType]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := c.Get(ContextIdentity).(*domain.Identity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[ident.Account.UserType]; !ok {
				metrics.GateDenialsTotal.WithLabelValues("rbac").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
