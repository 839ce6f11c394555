package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

func generatePassData(application *models.Application) string {
	secretKey := os.Getenv("JWT_SECRET")
	signature := generatePassSignature(application.ID, application.PlaceID, application.UserID, secretKey)
	return fmt.Sprintf("application:%d;place:%d;event:%d;signature:%s",
		application.ID,
		application.PlaceID,
		application.EventID,
		signature,
	)
}

func generatePassSignature(applicationID, placeID, userID int, secretKey string) string {
	data := fmt.Sprintf("%d:%d:%d", applicationID, placeID, userID)
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func extractApplicationIDFromPass(passData string) (int, error) {
	parts := strings.Split(passData, ";")
	if len(parts) != 4 || !strings.HasPrefix(parts[0], "application:") || !strings.HasPrefix(parts[3], "signature:") {
		return 0, fmt.Errorf("invalid pass data format")
	}
	return helpers.StringToInt(strings.TrimPrefix(parts[0], "application:"))
}

func validatePassSignature(application *models.Application, passData string) bool {
	parts := strings.Split(passData, ";")
	if len(parts) != 4 || !strings.HasPrefix(parts[3], "signature:") {
		return false
	}

	secretKey := os.Getenv("JWT_SECRET")
	signature := strings.TrimPrefix(parts[3], "signature:")
	expectedSignature := generatePassSignature(application.ID, application.PlaceID, application.UserID, secretKey)
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// GenerateBookingPass renders a signed QR pass for the caller's own booking.
func GenerateBookingPass(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	applicationID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid application ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Application not found.")
		return
	}

	if application.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate a pass for this application.")
		return
	}

	passData := generatePassData(&application)

	qrImage, err := qrcode.Encode(passData, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ValidateBookingPass checks a scanned pass against its HMAC signature.
func ValidateBookingPass(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var validationRequest struct {
		PassData string `json:"passData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	applicationID, err := extractApplicationIDFromPass(validationRequest.PassData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid pass format.")
		return
	}

	var application models.Application
	if err := applicationQuery(db).First(&application, applicationID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Application not found.")
		return
	}

	if !validatePassSignature(&application, validationRequest.PassData) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid pass signature.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newApplicationResponse(&application, false), "Pass validated successfully.")
}
