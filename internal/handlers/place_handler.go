package handlers

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

const searchResultCap = 50

type PlaceRequest struct {
	Name              string `json:"name" binding:"required,max=100"`
	AddressID         int    `json:"addressId" binding:"required"`
	EquipmentIDs      []int  `json:"equipmentIds"`
	CharacteristicIDs []int  `json:"characteristicIds"`
	ServiceIDs        []int  `json:"serviceIds"`
	PhotoIDs          []int  `json:"photoIds"`
}

type PlacePhotoInfo struct {
	ID     int    `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"isMain"`
}

type PlaceResponse struct {
	ID              int                     `json:"id"`
	Name            string                  `json:"name"`
	Address         AddressResponse         `json:"address"`
	Equipments      []models.Equipment      `json:"equipments"`
	Characteristics []models.Characteristic `json:"characteristics"`
	Services        []models.Service        `json:"services"`
	Photos          []PlacePhotoInfo        `json:"photos"`
	AverageRating   *float64                `json:"averageRating"`
	ReviewCount     int                     `json:"reviewCount"`
}

type ratingSummary struct {
	PlaceID int
	Average float64
	Count   int
}

// ratingSummaries aggregates review rows per place at read time; averages
// are rounded to one decimal.
func ratingSummaries(db *gorm.DB) (map[int]ratingSummary, error) {
	var rows []ratingSummary
	err := db.Model(&models.PlaceReview{}).
		Select("place_id, AVG(rating) as average, COUNT(*) as count").
		Group("place_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[int]ratingSummary, len(rows))
	for _, row := range rows {
		row.Average = math.Round(row.Average*10) / 10
		summaries[row.PlaceID] = row
	}
	return summaries, nil
}

func newPlaceResponse(p *models.Place, summaries map[int]ratingSummary) PlaceResponse {
	response := PlaceResponse{
		ID:              p.ID,
		Name:            p.Name,
		Address:         newAddressResponse(&p.Address),
		Equipments:      p.Equipments,
		Characteristics: p.Characteristics,
		Services:        p.Services,
		Photos:          make([]PlacePhotoInfo, 0, len(p.Photos)),
	}
	for _, photo := range p.Photos {
		response.Photos = append(response.Photos, PlacePhotoInfo{
			ID:     photo.PhotoID,
			URL:    photo.Photo.Name,
			IsMain: photo.IsMain,
		})
	}
	if summary, ok := summaries[p.ID]; ok && summary.Count > 0 {
		avg := summary.Average
		response.AverageRating = &avg
		response.ReviewCount = summary.Count
	}
	return response
}

func placeQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("Address").
		Preload("Equipments").
		Preload("Characteristics").
		Preload("Services").
		Preload("Photos.Photo")
}

func ListPlaces(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var minRating float64
	hasMinRating := false
	if raw := c.Query("minRating"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid minRating value.")
			return
		}
		minRating = parsed
		hasMinRating = true
	}

	var places []models.Place
	if err := placeQuery(db).Order("id").Find(&places).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving places.")
		return
	}

	summaries, err := ratingSummaries(db)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error aggregating ratings.")
		return
	}

	response := make([]PlaceResponse, 0, len(places))
	for i := range places {
		item := newPlaceResponse(&places[i], summaries)
		if hasMinRating && (item.AverageRating == nil || *item.AverageRating < minRating) {
			continue
		}
		response = append(response, item)
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Places retrieved.")
}

// PopularPlaces ranks places by booking count plus favorite count. With no
// signal at all the insertion order is kept.
func PopularPlaces(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	limit := 6
	if raw := c.Query("limit"); raw != "" {
		parsed, err := helpers.StringToInt(raw)
		if err != nil || parsed <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = parsed
	}

	var places []models.Place
	if err := placeQuery(db).Order("id").Find(&places).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving places.")
		return
	}

	applicationCounts, err := countPerPlace(db, &models.Application{})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error ranking places.")
		return
	}
	favoriteCounts, err := countPerPlace(db, &models.UserFavorite{})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error ranking places.")
		return
	}

	sort.SliceStable(places, func(i, j int) bool {
		scoreI := applicationCounts[places[i].ID] + favoriteCounts[places[i].ID]
		scoreJ := applicationCounts[places[j].ID] + favoriteCounts[places[j].ID]
		return scoreI > scoreJ
	})

	if len(places) > limit {
		places = places[:limit]
	}

	summaries, err := ratingSummaries(db)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error aggregating ratings.")
		return
	}

	response := make([]PlaceResponse, 0, len(places))
	for i := range places {
		response = append(response, newPlaceResponse(&places[i], summaries))
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Popular places retrieved.")
}

func countPerPlace(db *gorm.DB, model interface{}) (map[int]int, error) {
	var rows []struct {
		PlaceID int
		Count   int
	}
	err := db.Model(model).
		Select("place_id, COUNT(*) as count").
		Group("place_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.PlaceID] = row.Count
	}
	return counts, nil
}

func GetPlace(c *gin.Context) {
	placeID, err := helpers.StringToInt(c.Param("id"))
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
	if err := placeQuery(db).First(&place, placeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Place not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving place.")
		return
	}

	summaries, err := ratingSummaries(db)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error aggregating ratings.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newPlaceResponse(&place, summaries), "Place retrieved.")
}

// SearchPlaces matches the term as a case-sensitive substring of the place
// name, city, street and of any linked equipment, characteristic or
// service name.
func SearchPlaces(c *gin.Context) {
	term := c.Query("term")
	if strings.TrimSpace(term) == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Search term cannot be empty.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var places []models.Place
	if err := placeQuery(db).Order("id").Find(&places).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error searching places.")
		return
	}

	summaries, err := ratingSummaries(db)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error aggregating ratings.")
		return
	}

	response := make([]PlaceResponse, 0)
	for i := range places {
		if !placeMatchesTerm(&places[i], term) {
			continue
		}
		response = append(response, newPlaceResponse(&places[i], summaries))
		if len(response) == searchResultCap {
			break
		}
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Places retrieved.")
}

func placeMatchesTerm(p *models.Place, term string) bool {
	if strings.Contains(p.Name, term) ||
		strings.Contains(p.Address.City, term) ||
		strings.Contains(p.Address.Street, term) {
		return true
	}
	for _, equipment := range p.Equipments {
		if strings.Contains(equipment.Name, term) {
			return true
		}
	}
	for _, characteristic := range p.Characteristics {
		if strings.Contains(characteristic.Name, term) {
			return true
		}
	}
	for _, service := range p.Services {
		if strings.Contains(service.Name, term) {
			return true
		}
	}
	return false
}

func CreatePlace(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var address models.Address
	if err := db.First(&address, req.AddressID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Specified address does not exist.")
		return
	}

	equipments, characteristics, services, err := loadPlaceLinks(db, &req)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	place := models.Place{
		Name:            req.Name,
		AddressID:       req.AddressID,
		Equipments:      equipments,
		Characteristics: characteristics,
		Services:        services,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&place).Error; err != nil {
			return err
		}
		return replacePlacePhotos(tx, place.ID, req.PhotoIDs)
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create place.")
		return
	}

	var created models.Place
	if err := placeQuery(db).First(&created, place.ID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving created place.")
		return
	}

	summaries := map[int]ratingSummary{}
	helpers.RespondWithData(c, http.StatusCreated, newPlaceResponse(&created, summaries), "Place created successfully.")
}

func UpdatePlace(c *gin.Context) {
	placeID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid place ID.")
		return
	}

	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
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

	var address models.Address
	if err := db.First(&address, req.AddressID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Specified address does not exist.")
		return
	}

	equipments, characteristics, services, err := loadPlaceLinks(db, &req)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	place.Name = req.Name
	place.AddressID = req.AddressID

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&place).Error; err != nil {
			return err
		}
		if err := tx.Model(&place).Association("Equipments").Replace(equipments); err != nil {
			return err
		}
		if err := tx.Model(&place).Association("Characteristics").Replace(characteristics); err != nil {
			return err
		}
		if err := tx.Model(&place).Association("Services").Replace(services); err != nil {
			return err
		}
		return replacePlacePhotos(tx, place.ID, req.PhotoIDs)
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update place.")
		return
	}

	var updated models.Place
	if err := placeQuery(db).First(&updated, place.ID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving updated place.")
		return
	}

	summaries, err := ratingSummaries(db)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error aggregating ratings.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newPlaceResponse(&updated, summaries), "Place updated successfully.")
}

func DeletePlace(c *gin.Context) {
	placeID, err := helpers.StringToInt(c.Param("id"))
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

	var applicationCount int64
	if err := db.Model(&models.Application{}).Where("place_id = ?", placeID).Count(&applicationCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking linked applications.")
		return
	}
	if applicationCount > 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Place has linked applications and cannot be deleted.")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&place).Association("Equipments").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&place).Association("Characteristics").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&place).Association("Services").Clear(); err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", placeID).Delete(&models.PlacePhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", placeID).Delete(&models.PlaceReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", placeID).Delete(&models.UserFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", placeID).Delete(&models.UserViewHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&place).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete place.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Place deleted successfully.")
}

// loadPlaceLinks resolves every referenced id and fails when any of them
// does not exist.
func loadPlaceLinks(db *gorm.DB, req *PlaceRequest) ([]models.Equipment, []models.Characteristic, []models.Service, error) {
	var equipments []models.Equipment
	if len(req.EquipmentIDs) > 0 {
		if err := db.Find(&equipments, req.EquipmentIDs).Error; err != nil {
			return nil, nil, nil, err
		}
		if len(equipments) != len(uniqueIDs(req.EquipmentIDs)) {
			return nil, nil, nil, fmt.Errorf("one or more equipment IDs do not exist")
		}
	}

	var characteristics []models.Characteristic
	if len(req.CharacteristicIDs) > 0 {
		if err := db.Find(&characteristics, req.CharacteristicIDs).Error; err != nil {
			return nil, nil, nil, err
		}
		if len(characteristics) != len(uniqueIDs(req.CharacteristicIDs)) {
			return nil, nil, nil, fmt.Errorf("one or more characteristic IDs do not exist")
		}
	}

	var services []models.Service
	if len(req.ServiceIDs) > 0 {
		if err := db.Find(&services, req.ServiceIDs).Error; err != nil {
			return nil, nil, nil, err
		}
		if len(services) != len(uniqueIDs(req.ServiceIDs)) {
			return nil, nil, nil, fmt.Errorf("one or more service IDs do not exist")
		}
	}

	if len(req.PhotoIDs) > 0 {
		var photos []models.Photo
		if err := db.Find(&photos, req.PhotoIDs).Error; err != nil {
			return nil, nil, nil, err
		}
		if len(photos) != len(uniqueIDs(req.PhotoIDs)) {
			return nil, nil, nil, fmt.Errorf("one or more photo IDs do not exist")
		}
	}

	return equipments, characteristics, services, nil
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	result := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}

// replacePlacePhotos swaps the photo links wholesale; the first id in the
// request list becomes the main photo.
func replacePlacePhotos(tx *gorm.DB, placeID int, photoIDs []int) error {
	if err := tx.Where("place_id = ?", placeID).Delete(&models.PlacePhoto{}).Error; err != nil {
		return err
	}
	for i, photoID := range uniqueIDs(photoIDs) {
		link := models.PlacePhoto{
			PlaceID: placeID,
			PhotoID: photoID,
			IsMain:  i == 0,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
