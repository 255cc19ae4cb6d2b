package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerdesk/backoffice/internal/api/middleware"
)

// ctxUserID returns the user id injected by the Auth middleware. Its absence
// means the route was mounted without the middleware, so the request is
// rejected before any service call.
func ctxUserID(c echo.Context) (string, error) {
	uid, _ := c.Get(middleware.UserIDKey).(string)
	if uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return uid, nil
}
