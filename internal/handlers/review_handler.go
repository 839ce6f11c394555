package handlers

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type ReviewItem struct {
	ID        int       `json:"id"`
	PlaceID   int       `json:"placeId"`
	UserID    int       `json:"userId"`
	UserLogin string    `json:"userLogin"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewListResponse struct {
	AverageRating *float64     `json:"averageRating"`
	ReviewCount   int          `json:"reviewCount"`
	Reviews       []ReviewItem `json:"reviews"`
}

func ListReviews(c *gin.Context) {
	placeID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := helpers.StringToInt(raw)
		if err != nil || parsed <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = parsed
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var place models.Place
	if err := db.First(&place, placeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Place not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding place.")
		return
	}

	var reviews []models.PlaceReview
	err = db.Preload("User").
		Where("place_id = ?", placeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	response := ReviewListResponse{
		ReviewCount: len(reviews),
		Reviews:     make([]ReviewItem, 0, len(reviews)),
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
		response.Reviews = append(response.Reviews, ReviewItem{
			ID:        review.ID,
			PlaceID:   review.PlaceID,
			UserID:    review.UserID,
			UserLogin: review.User.Login,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	if len(reviews) > 0 {
		avg := math.Round(float64(sum)/float64(len(reviews))*10) / 10
		response.AverageRating = &avg
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Reviews retrieved.")
}

// AddReview upserts: a second review from the same user for the same place
// overwrites the first one.
func AddReview(c *gin.Context) {
	placeID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
		return
	}

	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Validation failed.", []string{"Rating must be between 1 and 5."})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var place models.Place
	if err := db.First(&place, placeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Place not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding place.")
		return
	}

	comment := strings.TrimSpace(req.Comment)
	now := time.Now()

	var existing models.PlaceReview
	result := db.Where("place_id = ? AND user_id = ?", placeID, userID).First(&existing)
	if result.Error == nil {
		existing.Rating = req.Rating
		existing.Comment = comment
		existing.CreatedAt = now
		if err := db.Save(&existing).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save review.")
			return
		}
		helpers.RespondWithData(c, http.StatusOK, true, "Review saved.")
		return
	}

	review := models.PlaceReview{
		PlaceID:   placeID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: now,
	}
	if err := db.Create(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save review.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Review saved.")
}
