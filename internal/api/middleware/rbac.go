package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/core/domain"
)

// RBAC enforces a flat role allow-list after Auth has run. There is no role
// hierarchy: admin is not implicitly allowed where staff is required.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	names := make([]string, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
		names = append(names, string(r))
	}
	message := fmt.Sprintf("Required roles: %v", names)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, message)
			}
			return next(c)
		}
	}
}
