package handler

import (
	"net/http"
	"time"

	"spot-service/internal/middleware"
	"spot-service/internal/model"
	"spot-service/pkg/database"
	"spot-service/pkg/logger"
	"spot-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SpotRequest defines the structure for spot creation/update requests
type SpotRequest struct {
	Country     string   `json:"country"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Images      []struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	} `json:"images"`
}

func validateSpot(req *SpotRequest) map[string]string {
	errs := map[string]string{}
	if req.Country == "" {
		errs["country"] = "country is required"
	}
	if req.Address == "" {
		errs["address"] = "address is required"
	}
	if req.City == "" {
		errs["city"] = "city is required"
	}
	if req.State == "" {
		errs["state"] = "state is required"
	}
	if req.Name == "" || len(req.Name) > 100 {
		errs["name"] = "name must be between 1 and 100 characters"
	}
	if req.Price <= 0 {
		errs["price"] = "price must be greater than 0"
	}
	if len(req.Description) < 30 {
		errs["description"] = "description must be at least 30 characters"
	}
	return errs
}

// spotSummary is a list entry enriched with the aggregate rating and the
// preview image, matching what the listing page renders.
type spotSummary struct {
	model.Spot
	AvgRating    *float64 `json:"avgRating"`
	PreviewImage string   `json:"previewImage,omitempty"`
}

func summarize(c echo.Context, spots []model.Spot) []spotSummary {
	log := logger.FromContext(c)

	summaries := make([]spotSummary, 0, len(spots))
	for _, spot := range spots {
		item := spotSummary{Spot: spot}
		if summary, err := ratings.Aggregate(spot.ID); err == nil {
			item.AvgRating = summary.AverageStars
		} else {
			log.Warn("Failed to aggregate rating", zap.Uint("spot_id", spot.ID), zap.Error(err))
		}
		for _, img := range spot.Images {
			if img.Preview || item.PreviewImage == "" {
				item.PreviewImage = img.URL
			}
		}
		item.Images = nil
		summaries = append(summaries, item)
	}
	return summaries
}

// ListSpots handles retrieving all spots with aggregate ratings
func ListSpots(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var spots []model.Spot
	result := database.GetDB().Preload("Images").Find(&spots)
	if result.Error != nil {
		log.Error("Failed to list spots", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve spots"})
	}

	prometheus.RecordSpotOperation("list")
	return c.JSON(http.StatusOK, echo.Map{"spots": summarize(c, spots)})
}

// ListCurrentUserSpots handles retrieving the authenticated user's spots
func ListCurrentUserSpots(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var spots []model.Spot
	result := database.GetDB().Preload("Images").Where("owner_id = ?", userID).Find(&spots)
	if result.Error != nil {
		log.Error("Failed to list user spots", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve spots"})
	}

	return c.JSON(http.StatusOK, echo.Map{"spots": summarize(c, spots)})
}

// GetSpot handles retrieving a single spot with owner, images and rating summary
func GetSpot(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var spot model.Spot
	result := database.GetDB().Preload("Images").Preload("Owner").First(&spot, "id = ?", id)
	if result.Error != nil {
		log.Warn("Spot not found", zap.String("spot_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
	}

	summary, err := ratings.Aggregate(spot.ID)
	if err != nil {
		log.Error("Failed to aggregate rating", zap.Uint("spot_id", spot.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve spot"})
	}

	prometheus.RecordSpotOperation("get")
	return c.JSON(http.StatusOK, echo.Map{
		"spot":          spot,
		"avgStarRating": summary.AverageStars,
		"numReviews":    summary.Count,
	})
}

// CreateSpot handles creating a new spot owned by the authenticated user
func CreateSpot(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req SpotRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if errs := validateSpot(&req); len(errs) > 0 {
		log.Warn("Spot validation failed", zap.Any("errors", errs))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot data", "errors": errs})
	}

	spot := model.Spot{
		OwnerID:     userID,
		Country:     req.Country,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}
	for _, img := range req.Images {
		spot.Images = append(spot.Images, model.SpotImage{URL: img.URL, Preview: img.Preview})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&spot); result.Error != nil {
		log.Error("Failed to create spot", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create spot"})
	}

	prometheus.RecordSpotOperation("create")
	log.Info("Spot created",
		zap.Uint("spot_id", spot.ID),
		zap.Uint("owner_id", userID),
		zap.String("name", spot.Name))
	return c.JSON(http.StatusCreated, spot)
}

// UpdateSpot handles updating an existing spot. Owner only.
func UpdateSpot(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	var req SpotRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("spot_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var spot model.Spot
	if result := database.GetDB().First(&spot, "id = ?", id); result.Error != nil {
		log.Warn("Spot not found for update", zap.String("spot_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
	}

	if spot.OwnerID != userID {
		log.Warn("Spot update forbidden",
			zap.String("spot_id", id),
			zap.Uint("owner_id", spot.OwnerID),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owner may update this spot"})
	}

	if errs := validateSpot(&req); len(errs) > 0 {
		log.Warn("Spot validation failed", zap.Any("errors", errs))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot data", "errors": errs})
	}

	spot.Country = req.Country
	spot.Address = req.Address
	spot.City = req.City
	spot.State = req.State
	spot.Lat = req.Lat
	spot.Lng = req.Lng
	spot.Name = req.Name
	spot.Price = req.Price
	spot.Description = req.Description

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&spot); result.Error != nil {
		log.Error("Failed to update spot", zap.String("spot_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update spot"})
	}

	prometheus.RecordSpotOperation("update")
	log.Info("Spot updated", zap.Uint("spot_id", spot.ID))
	return c.JSON(http.StatusOK, spot)
}

// DeleteSpot handles deleting a spot and, through cascades, its images,
// bookings and reviews. Owner only.
func DeleteSpot(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	var spot model.Spot
	if result := database.GetDB().First(&spot, "id = ?", id); result.Error != nil {
		log.Warn("Spot not found for deletion", zap.String("spot_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
	}

	if spot.OwnerID != userID {
		log.Warn("Spot deletion forbidden",
			zap.String("spot_id", id),
			zap.Uint("owner_id", spot.OwnerID),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owner may delete this spot"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&spot); result.Error != nil {
		log.Error("Failed to delete spot", zap.String("spot_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete spot"})
	}

	// The spot's review set is gone with it
	ratings.Invalidate(spot.ID)

	prometheus.RecordSpotOperation("delete")
	log.Info("Spot deleted", zap.Uint("spot_id", spot.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "spot deleted successfully"})
}
