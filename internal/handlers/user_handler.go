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

type UpdateUserRequest struct {
	Login  string `json:"login" binding:"omitempty,min=3,max=50"`
	RoleID *int   `json:"roleId"`
}

type ChangeRoleRequest struct {
	RoleID int `json:"roleId" binding:"required"`
}

type UserResponse struct {
	ID        int       `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	RoleID    int       `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		Role:      u.Role.Name,
		RoleID:    u.RoleID,
		CreatedAt: u.CreatedAt,
	}
}

func ListUsers(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := helpers.StringToInt(raw)
		if err != nil || parsed <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
			return
		}
		page = parsed
	}

	pageSize := 20
	if raw := c.Query("pageSize"); raw != "" {
		parsed, err := helpers.StringToInt(raw)
		if err != nil || parsed <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page size.")
			return
		}
		pageSize = parsed
	}

	var totalCount int64
	if err := db.Model(&models.User{}).Count(&totalCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting users.")
		return
	}

	var users []models.User
	err := db.Preload("Role").
		Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, newUserResponse(&users[i]))
	}

	helpers.RespondWithPage(c, http.StatusOK, response, "Users retrieved.", helpers.NewPagination(page, pageSize, totalCount))
}

func SearchUsers(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Search term cannot be empty.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	pattern := "%" + term + "%"
	var users []models.User
	err := db.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.login LIKE ? OR roles.name LIKE ?", pattern, pattern).
		Order("users.login").
		Limit(searchResultCap).
		Find(&users).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error searching users.")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, newUserResponse(&users[i]))
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Users retrieved.")
}

func ListUsersByRole(c *gin.Context) {
	roleID, err := helpers.StringToInt(c.Param("roleId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid role ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var users []models.User
	err = db.Preload("Role").
		Where("role_id = ?", roleID).
		Order("login").
		Find(&users).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, newUserResponse(&users[i]))
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Users retrieved.")
}

func GetUser(c *gin.Context) {
	userID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var user models.User
	if err := db.Preload("Role").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newUserResponse(&user), "User retrieved.")
}

func GetMe(c *gin.Context) {
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
	if err := db.Preload("Role").First(&user, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newUserResponse(&user), "User retrieved.")
}

func UpdateUser(c *gin.Context) {
	userID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	var req UpdateUserRequest
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
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	if req.Login != "" && req.Login != user.Login {
		var existing models.User
		if result := db.Where("login = ? AND id <> ?", req.Login, userID).First(&existing); result.Error == nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "User with this login already exists.")
			return
		}
		user.Login = req.Login
	}

	if req.RoleID != nil {
		var role models.Role
		if err := db.First(&role, *req.RoleID).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Specified role does not exist.")
			return
		}
		user.RoleID = *req.RoleID
	}

	if err := db.Save(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	var updated models.User
	if err := db.Preload("Role").First(&updated, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving updated user.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newUserResponse(&updated), "User updated successfully.")
}

func ChangeUserRole(c *gin.Context) {
	userID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	var req ChangeRoleRequest
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
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	var role models.Role
	if err := db.First(&role, req.RoleID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Specified role does not exist.")
		return
	}

	if err := db.Model(&user).Update("role_id", req.RoleID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to change role.")
		return
	}

	user.RoleID = req.RoleID
	user.Role = role
	helpers.RespondWithData(c, http.StatusOK, newUserResponse(&user), "Role changed successfully.")
}

func DeleteUser(c *gin.Context) {
	userID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	var applicationCount int64
	if err := db.Model(&models.Application{}).Where("user_id = ?", userID).Count(&applicationCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking linked applications.")
		return
	}
	if applicationCount > 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "User has linked applications and cannot be deleted.")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserViewHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PlaceReview{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "User deleted successfully.")
}
