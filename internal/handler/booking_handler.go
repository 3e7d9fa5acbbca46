package handler

import (
	"net/http"
	"strconv"
	"time"

	"spot-service/internal/middleware"
	"spot-service/internal/model"
	"spot-service/pkg/database"
	"spot-service/pkg/logger"
	"spot-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BookingRequest defines the structure for booking creation/update requests.
// Dates are calendar dates in YYYY-MM-DD form; the range is half-open, so
// the end date is the checkout day.
type BookingRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *BookingRequest) parse() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func paramID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CheckAvailability reports whether a date range is free on a spot. Pure
// read; supports ?exclude=<bookingID> for edit-in-place checks.
func CheckAvailability(c echo.Context) error {
	log := logger.FromContext(c)

	spotID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	start, err := time.Parse(dateLayout, c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date, expected YYYY-MM-DD"})
	}

	var excludeID uint
	if exclude := c.QueryParam("exclude"); exclude != "" {
		id, err := strconv.ParseUint(exclude, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude parameter"})
		}
		excludeID = uint(id)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	result, err := ledger.CheckAvailability(spotID, start, end, excludeID)
	if err != nil {
		log.Warn("Availability check failed", zap.Uint("spot_id", spotID), zap.Error(err))
		return bookingError(c, err)
	}

	prometheus.RecordBookingOperation("check")
	return c.JSON(http.StatusOK, result)
}

// ListSpotBookings returns all bookings for a spot
func ListSpotBookings(c echo.Context) error {
	log := logger.FromContext(c)

	spotID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	var count int64
	database.GetDB().Model(&model.Spot{}).Where("id = ?", spotID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var bookings []model.Booking
	result := database.GetDB().Where("spot_id = ?", spotID).Order("start_date").Find(&bookings)
	if result.Error != nil {
		log.Error("Failed to list bookings", zap.Uint("spot_id", spotID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// ListCurrentUserBookings returns the authenticated user's bookings
func ListCurrentUserBookings(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var bookings []model.Booking
	result := database.GetDB().Where("user_id = ?", userID).Order("start_date").Find(&bookings)
	if result.Error != nil {
		log.Error("Failed to list user bookings", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// CreateBooking books a date range on a spot for the authenticated user
func CreateBooking(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	spotID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	start, end, err := req.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dates, expected YYYY-MM-DD"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	b, err := ledger.Create(spotID, userID, start, end)
	if err != nil {
		log.Warn("Booking rejected",
			zap.Uint("spot_id", spotID),
			zap.Uint("user_id", userID),
			zap.String("start", req.StartDate),
			zap.String("end", req.EndDate),
			zap.Error(err))
		return bookingError(c, err)
	}

	prometheus.RecordBookingOperation("create")
	log.Info("Booking created",
		zap.Uint("booking_id", b.ID),
		zap.Uint("spot_id", spotID),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, b)
}

// UpdateBooking moves an existing booking to a new date range
func UpdateBooking(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	bookingID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	start, end, err := req.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dates, expected YYYY-MM-DD"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	b, err := ledger.Update(bookingID, userID, start, end)
	if err != nil {
		log.Warn("Booking update rejected",
			zap.Uint("booking_id", bookingID),
			zap.Uint("user_id", userID),
			zap.Error(err))
		return bookingError(c, err)
	}

	prometheus.RecordBookingOperation("update")
	log.Info("Booking updated", zap.Uint("booking_id", b.ID))
	return c.JSON(http.StatusOK, b)
}

// DeleteBooking cancels a booking. Allowed for the booking's user and the
// spot's owner; the deletion is permanent.
func DeleteBooking(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	bookingID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := ledger.Cancel(bookingID, userID); err != nil {
		log.Warn("Booking cancellation rejected",
			zap.Uint("booking_id", bookingID),
			zap.Uint("user_id", userID),
			zap.Error(err))
		return bookingError(c, err)
	}

	prometheus.RecordBookingOperation("cancel")
	log.Info("Booking cancelled", zap.Uint("booking_id", bookingID))
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}
