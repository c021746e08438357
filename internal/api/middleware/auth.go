package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edulink/school-system/internal/api/metrics"
	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

// AccessTokenCookie is the cookie fallback for browser sessions. The bearer
// header takes precedence when both are present.
const AccessTokenCookie = "access_token"

// Context keys set by the Auth middleware.
const (
	ContextIdentity = "identity"
	ContextUsername = "username"
	ContextUserType = "user_type"
	ContextSchoolID = "school_id"
)

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	Resolver ports.IdentityResolver
	// AllowedOrigins enables the defence-in-depth origin check when
	// non-empty: requests carrying an Origin header outside the list are
	// rejected exactly like requests with no token.
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Auth resolves the caller's credential and injects the identity into the
// request context. All authentication failures render as 401 with the same
// shape; only the server-side log tells them apart.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) > 0 {
				if origin := c.Request().Header.Get("Origin"); origin != "" {
					if _, ok := allowed[strings.TrimRight(origin, "/")]; !ok {
						cfg.Logger.Info().Str("origin", origin).Msg("rejected disallowed origin")
						metrics.TokenValidationsTotal.WithLabelValues("origin_rejected").Inc()
						return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
					}
				}
			}

			token, ok := extractToken(c)
			if !ok {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			ident, err := cfg.Resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrCredentialRevoked):
					metrics.TokenValidationsTotal.WithLabelValues("revoked").Inc()
				case errors.Is(err, domain.ErrUnauthenticated):
					metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				default:
					cfg.Logger.Error().Err(err).Msg("identity resolution failed")
					return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			// Deactivated accounts resolve but may not call protected
			// endpoints; the reason is client-visible, unlike other 401s.
			if !ident.Account.IsActive {
				metrics.TokenValidationsTotal.WithLabelValues("inactive").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "account inactive")
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			c.Set(ContextIdentity, ident)
			c.Set(ContextUsername, ident.Account.Username)
			c.Set(ContextUserType, string(ident.Account.UserType))
			if ident.Role != nil {
				c.Set(ContextSchoolID, ident.Role.SchoolID)
			}

			return next(c)
		}
	}
}

// extractToken pulls the credential from the Authorization header, falling
// back to the access_token cookie.
func extractToken(c echo.Context) (string, bool) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}
