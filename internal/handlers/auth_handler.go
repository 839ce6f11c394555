package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

const defaultRoleID = 3

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=20"`
	RoleID   int    `json:"roleId"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=20"`
}

type AuthResponse struct {
	UserID      int       `json:"userId"`
	Login       string    `json:"login"`
	Role        string    `json:"role"`
	Token       string    `json:"token"`
	TokenExpiry time.Time `json:"tokenExpiry"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var existingUser models.User
	if result := db.Where("login = ?", req.Login).First(&existingUser); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "User with this login already exists.")
		return
	}

	roleID := req.RoleID
	if roleID <= 0 {
		roleID = defaultRoleID
	}

	var role models.Role
	if err := db.First(&role, roleID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Specified role does not exist.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.Password)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user := models.User{
		Login:     req.Login,
		Password:  hashedPassword,
		RoleID:    roleID,
		CreatedAt: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	token, expiry, err := helpers.GenerateToken(user.ID, role.Name)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, AuthResponse{
		UserID:      user.ID,
		Login:       user.Login,
		Role:        role.Name,
		Token:       token,
		TokenExpiry: expiry,
	}, "User registered successfully.")
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var user models.User
	if err := db.Preload("Role").Where("login = ?", req.Login).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if !helpers.CheckPassword(user.Password, req.Password) {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, expiry, err := helpers.GenerateToken(user.ID, user.Role.Name)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, AuthResponse{
		UserID:      user.ID,
		Login:       user.Login,
		Role:        user.Role.Name,
		Token:       token,
		TokenExpiry: expiry,
	}, "Logged in successfully.")
}

func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

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

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if !helpers.CheckPassword(user.Password, req.OldPassword) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Old password is incorrect.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	if err := db.Model(&user).Update("password", hashedPassword).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to change password.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Password changed successfully.")
}
