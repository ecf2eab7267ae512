package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/api/metrics"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID  = "user_id"
	CtxRole    = "role"
	CtxIsGuest = "is_guest"
)

// Auth validates the bearer token and injects the authenticated identity into
// the request context. Only access tokens pass: a refresh token is structurally
// valid but proves identity alone, so it is rejected here.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is missing")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is missing")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil || claims.Type != ports.TokenAccess {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, string(claims.Role))
			c.Set(CtxIsGuest, claims.IsGuest)

			return next(c)
		}
	}
}
