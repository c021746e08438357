package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edulink/school-system/internal/api/middleware"
	"github.com/edulink/school-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: its presence proves the
// middleware ran on this route.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	ident, ok := c.Get(middleware.ContextIdentity).(*domain.Identity)
	if !ok || ident.Account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ident, nil
}
