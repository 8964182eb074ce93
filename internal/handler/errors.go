package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/engine"
)

// engineError maps an engine sentinel to an HTTP response.  Unknown
// errors become 500 without leaking internals.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrFlightNotFound),
		errors.Is(err, engine.ErrSeatNotFound),
		errors.Is(err, engine.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrSeatConflict),
		errors.Is(err, engine.ErrWrongState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrHoldExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrPaymentDeclined):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
