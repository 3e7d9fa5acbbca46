package handler

import (
	"errors"
	"net/http"

	"spot-service/internal/booking"
	"spot-service/internal/rating"
	"spot-service/prometheus"

	"github.com/labstack/echo/v4"
)

var (
	ledger  *booking.Ledger
	ratings *rating.Aggregator
)

// Init wires the handlers to the booking ledger and rating aggregator
func Init(l *booking.Ledger, r *rating.Aggregator) {
	ledger = l
	ratings = r
}

// bookingError translates a booking engine error into an HTTP response
func bookingError(c echo.Context, err error) error {
	var conflict *booking.ConflictError
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start date must be before end date"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "operation not permitted"})
	case errors.As(err, &conflict):
		prometheus.BookingConflictsCounter.Inc()
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "spot is already booked for the specified dates",
			"conflicts": conflict.BookingIDs,
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
