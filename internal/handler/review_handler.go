package handler

import (
	"errors"
	"net/http"
	"time"

	"spot-service/internal/middleware"
	"spot-service/internal/model"
	"spot-service/pkg/database"
	"spot-service/pkg/logger"
	"spot-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewRequest defines the structure for review creation requests
type ReviewRequest struct {
	Stars  int    `json:"stars"`
	Body   string `json:"body"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func validateReview(req *ReviewRequest) map[string]string {
	errs := map[string]string{}
	if req.Stars < 1 || req.Stars > 5 {
		errs["stars"] = "stars must be an integer from 1 to 5"
	}
	if len(req.Body) < 10 {
		errs["body"] = "review body must be at least 10 characters"
	}
	return errs
}

// ListSpotReviews returns all reviews for a spot with their authors and images
func ListSpotReviews(c echo.Context) error {
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
	var reviews []model.Review
	result := database.GetDB().
		Preload("User").
		Preload("Images").
		Where("spot_id = ?", spotID).
		Order("created_at desc").
		Find(&reviews)
	if result.Error != nil {
		log.Error("Failed to list reviews", zap.Uint("spot_id", spotID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reviews"})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// ListCurrentUserReviews returns the authenticated user's reviews
func ListCurrentUserReviews(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var reviews []model.Review
	result := database.GetDB().
		Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reviews)
	if result.Error != nil {
		log.Error("Failed to list user reviews", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reviews"})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// CreateReview adds a review to a spot. One review per user per spot; the
// composite unique index backs the pre-check under concurrency.
func CreateReview(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	spotID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if errs := validateReview(&req); len(errs) > 0 {
		log.Warn("Review validation failed", zap.Any("errors", errs))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review data", "errors": errs})
	}

	var count int64
	database.GetDB().Model(&model.Spot{}).Where("id = ?", spotID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
	}

	database.GetDB().Model(&model.Review{}).
		Where("spot_id = ? AND user_id = ?", spotID, userID).
		Count(&count)
	if count > 0 {
		log.Warn("Duplicate review", zap.Uint("spot_id", spotID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already reviewed this spot"})
	}

	review := model.Review{
		SpotID: spotID,
		UserID: userID,
		Stars:  req.Stars,
		Body:   req.Body,
	}
	for _, img := range req.Images {
		review.Images = append(review.Images, model.ReviewImage{URL: img.URL})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&review); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			log.Warn("Duplicate review", zap.Uint("spot_id", spotID), zap.Uint("user_id", userID))
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already reviewed this spot"})
		}
		log.Error("Failed to create review", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}

	ratings.Invalidate(spotID)

	prometheus.RecordReviewOperation("create")
	log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("spot_id", spotID),
		zap.Uint("user_id", userID),
		zap.Int("stars", review.Stars))
	return c.JSON(http.StatusCreated, review)
}

// DeleteReview removes a review. Author only.
func DeleteReview(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	reviewID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	var review model.Review
	if result := database.GetDB().First(&review, reviewID); result.Error != nil {
		log.Warn("Review not found for deletion", zap.Uint("review_id", reviewID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}

	if review.UserID != userID {
		log.Warn("Review deletion forbidden",
			zap.Uint("review_id", reviewID),
			zap.Uint("author_id", review.UserID),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the author may delete this review"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&review); result.Error != nil {
		log.Error("Failed to delete review", zap.Uint("review_id", reviewID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete review"})
	}

	ratings.Invalidate(review.SpotID)

	prometheus.RecordReviewOperation("delete")
	log.Info("Review deleted", zap.Uint("review_id", reviewID), zap.Uint("spot_id", review.SpotID))
	return c.JSON(http.StatusOK, echo.Map{"message": "review deleted successfully"})
}
