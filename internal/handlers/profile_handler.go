package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

type FavoritePlaceInfo struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Address AddressResponse `json:"address"`
}

type FavoriteResponse struct {
	ID        int               `json:"id"`
	PlaceID   int               `json:"placeId"`
	AddedDate time.Time         `json:"addedDate"`
	Place     FavoritePlaceInfo `json:"place"`
}

type ViewHistoryResponse struct {
	ID       int               `json:"id"`
	PlaceID  int               `json:"placeId"`
	ViewedAt time.Time         `json:"viewedAt"`
	Place    FavoritePlaceInfo `json:"place"`
}

func ListFavorites(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var favorites []models.UserFavorite
	err := db.Preload("Place.Address").
		Where("user_id = ?", userID).
		Order("added_date DESC").
		Find(&favorites).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving favorites.")
		return
	}

	response := make([]FavoriteResponse, 0, len(favorites))
	for _, favorite := range favorites {
		response = append(response, FavoriteResponse{
			ID:        favorite.ID,
			PlaceID:   favorite.PlaceID,
			AddedDate: favorite.AddedDate,
			Place: FavoritePlaceInfo{
				ID:      favorite.Place.ID,
				Name:    favorite.Place.Name,
				Address: newAddressResponse(&favorite.Place.Address),
			},
		})
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Favorites retrieved.")
}

func AddFavorite(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	placeID, err := helpers.StringToInt(c.Param("placeId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
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

	var existing models.UserFavorite
	result := db.Where("user_id = ? AND place_id = ?", userID, placeID).First(&existing)
	if result.Error == nil {
		helpers.RespondWithData(c, http.StatusOK, true, "Already in favorites.")
		return
	}

	favorite := models.UserFavorite{
		UserID:    userID,
		PlaceID:   placeID,
		AddedDate: time.Now(),
	}
	if err := db.Create(&favorite).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add favorite.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Added to favorites.")
}

func RemoveFavorite(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	placeID, err := helpers.StringToInt(c.Param("placeId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	if err := db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&models.UserFavorite{}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to remove favorite.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Removed from favorites.")
}

func CheckFavorite(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	placeID, err := helpers.StringToInt(c.Param("placeId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var count int64
	if err := db.Model(&models.UserFavorite{}).Where("user_id = ? AND place_id = ?", userID, placeID).Count(&count).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking favorite.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, count > 0, "Favorite checked.")
}

func ListViewHistory(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	limit := 20
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

	var history []models.UserViewHistory
	err := db.Preload("Place.Address").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving view history.")
		return
	}

	response := make([]ViewHistoryResponse, 0, len(history))
	for _, entry := range history {
		response = append(response, ViewHistoryResponse{
			ID:       entry.ID,
			PlaceID:  entry.PlaceID,
			ViewedAt: entry.ViewedAt,
			Place: FavoritePlaceInfo{
				ID:      entry.Place.ID,
				Name:    entry.Place.Name,
				Address: newAddressResponse(&entry.Place.Address),
			},
		})
	}

	helpers.RespondWithData(c, http.StatusOK, response, "View history retrieved.")
}

// AddViewHistory upserts: a repeat view of the same place only bumps the
// timestamp.
func AddViewHistory(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	placeID, err := helpers.StringToInt(c.Param("placeId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
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

	now := time.Now()

	var existing models.UserViewHistory
	result := db.Where("user_id = ? AND place_id = ?", userID, placeID).First(&existing)
	if result.Error == nil {
		if err := db.Model(&existing).Update("viewed_at", now).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update view history.")
			return
		}
		helpers.RespondWithData(c, http.StatusOK, true, "View history updated.")
		return
	}

	entry := models.UserViewHistory{
		UserID:   userID,
		PlaceID:  placeID,
		ViewedAt: now,
	}
	if err := db.Create(&entry).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add view history.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "View history recorded.")
}

func ClearViewHistory(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.UserViewHistory{}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to clear view history.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "View history cleared.")
}
