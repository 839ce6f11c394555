package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

type CreatePhotoRequest struct {
	Name string `json:"name" binding:"required"`
}

type PhotoResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreatePhoto registers a photo by URL without uploading a file.
func CreatePhoto(c *gin.Context) {
	var req CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Provide a URL or a path to the photo.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	photo := models.Photo{Name: strings.TrimSpace(req.Name)}
	if err := db.Create(&photo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create photo.")
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, PhotoResponse{ID: photo.ID, Name: photo.Name}, "Photo created successfully.")
}

// UploadPhoto stores an image under uploads/ and registers it.
func UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "File is missing or empty.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	filePath, err := helpers.UploadFile(c, fileHeader, "photos")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	photo := models.Photo{Name: "/" + strings.TrimPrefix(filePath, "./")}
	if err := db.Create(&photo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create photo.")
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, PhotoResponse{ID: photo.ID, Name: photo.Name}, "Photo uploaded successfully.")
}
