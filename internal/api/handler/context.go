package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/api/middleware"
)

// identity is the authenticated caller extracted from the request context.
type identity struct {
	UserID  int64
	Role    string
	IsGuest bool
}

// ctxIdentity reads the claims injected by the Auth middleware. A missing
// user id means the middleware did not run on this route; reject with 401
// rather than acting on a zero identity.
func ctxIdentity(c echo.Context) (identity, error) {
	userID, ok := c.Get(middleware.CtxUserID).(int64)
	if !ok || userID == 0 {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ := c.Get(middleware.CtxRole).(string)
	isGuest, _ := c.Get(middleware.CtxIsGuest).(bool)

	return identity{UserID: userID, Role: role, IsGuest: isGuest}, nil
}
