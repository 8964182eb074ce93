package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports that the service is running.  Used by load balancers
// and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
