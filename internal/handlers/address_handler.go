package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

type AddressRequest struct {
	City   string `json:"city" binding:"required,max=100"`
	Street string `json:"street" binding:"required,max=200"`
	House  string `json:"house" binding:"max=20"`
}

type AddressResponse struct {
	ID          int    `json:"id"`
	City        string `json:"city"`
	Street      string `json:"street"`
	House       string `json:"house"`
	FullAddress string `json:"fullAddress"`
}

func newAddressResponse(a *models.Address) AddressResponse {
	full := fmt.Sprintf("%s, %s", a.City, a.Street)
	if a.House != "" {
		full = fmt.Sprintf("%s, %s", full, a.House)
	}
	return AddressResponse{
		ID:          a.ID,
		City:        a.City,
		Street:      a.Street,
		House:       a.House,
		FullAddress: full,
	}
}

func ListAddresses(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var addresses []models.Address
	if err := db.Order("city, street").Find(&addresses).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving addresses.")
		return
	}

	response := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		response = append(response, newAddressResponse(&addresses[i]))
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Addresses retrieved.")
}

func ListCities(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var cities []string
	if err := db.Model(&models.Address{}).Distinct("city").Order("city").Pluck("city", &cities).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving cities.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, cities, "Cities retrieved.")
}

func SearchAddresses(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	city := c.Query("city")
	street := c.Query("street")

	query := db.Model(&models.Address{})
	if city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if street != "" {
		query = query.Where("street LIKE ?", "%"+street+"%")
	}

	var addresses []models.Address
	if err := query.Order("city, street").Limit(50).Find(&addresses).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error searching addresses.")
		return
	}

	response := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		response = append(response, newAddressResponse(&addresses[i]))
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Addresses retrieved.")
}

func GetAddress(c *gin.Context) {
	addressID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid address ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var address models.Address
	if err := db.First(&address, addressID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Address not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving address.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newAddressResponse(&address), "Address retrieved.")
}

func CreateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	address := models.Address{
		City:   req.City,
		Street: req.Street,
		House:  req.House,
	}

	if err := db.Create(&address).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create address.")
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, newAddressResponse(&address), "Address created successfully.")
}

func UpdateAddress(c *gin.Context) {
	addressID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid address ID.")
		return
	}

	var req AddressRequest
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
	if err := db.First(&address, addressID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Address not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding address.")
		return
	}

	address.City = req.City
	address.Street = req.Street
	address.House = req.House

	if err := db.Save(&address).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update address.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newAddressResponse(&address), "Address updated successfully.")
}

func DeleteAddress(c *gin.Context) {
	addressID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid address ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var address models.Address
	if err := db.First(&address, addressID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Address not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding address.")
		return
	}

	var placeCount int64
	if err := db.Model(&models.Place{}).Where("address_id = ?", addressID).Count(&placeCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking linked places.")
		return
	}
	if placeCount > 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Address has linked places and cannot be deleted.")
		return
	}

	if err := db.Delete(&address).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete address.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Address deleted successfully.")
}
