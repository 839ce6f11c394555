package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

const newStatusID = 1

type CreateApplicationRequest struct {
	EventName      string `json:"eventName" binding:"required,max=200"`
	EventTypeID    int    `json:"eventTypeId" binding:"required"`
	PlaceID        int    `json:"placeId" binding:"required"`
	ServiceIDs     []int  `json:"serviceIds" binding:"required,min=1"`
	ContactPhone   string `json:"contactPhone"`
	GuestCount     *int   `json:"guestCount"`
	EventDate      string `json:"eventDate"`
	EventTime      string `json:"eventTime"`
	Duration       *int   `json:"duration"`
	AdditionalInfo string `json:"additionalInfo"`
}

type UpdateApplicationRequest struct {
	StatusID       *int    `json:"statusId"`
	EventName      string  `json:"eventName"`
	EventTypeID    *int    `json:"eventTypeId"`
	PlaceID        *int    `json:"placeId"`
	ServiceIDs     []int   `json:"serviceIds"`
	ContactPhone   string  `json:"contactPhone"`
	GuestCount     *int    `json:"guestCount"`
	EventDate      string  `json:"eventDate"`
	EventTime      string  `json:"eventTime"`
	Duration       *int    `json:"duration"`
	AdditionalInfo *string `json:"additionalInfo"`
}

type UserInfo struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

type ApplicationResponse struct {
	ID             int        `json:"id"`
	Status         string     `json:"status"`
	StatusID       int        `json:"statusId"`
	EventID        int        `json:"eventId"`
	PlaceID        int        `json:"placeId"`
	PlaceName      string     `json:"placeName"`
	PlaceAddress   string     `json:"placeAddress"`
	ServiceIDs     []int      `json:"serviceIds"`
	ServiceNames   []string   `json:"serviceNames"`
	ContactPhone   string     `json:"contactPhone"`
	GuestCount     *int       `json:"guestCount"`
	EventDate      *time.Time `json:"eventDate"`
	EventTime      string     `json:"eventTime"`
	Duration       *int       `json:"duration"`
	AdditionalInfo string     `json:"additionalInfo"`
	EventName      string     `json:"eventName"`
	EventTypeName  string     `json:"eventTypeName"`
	DateCreate     time.Time  `json:"dateCreate"`
	DateUpdate     time.Time  `json:"dateUpdate"`
	User           *UserInfo  `json:"user,omitempty"`
}

type ApplicationStatsResponse struct {
	TotalApplications int64          `json:"totalApplications"`
	ApplicationsToday int64          `json:"applicationsToday"`
	ByStatus          map[string]int `json:"applicationsByStatus"`
	ByDay             map[string]int `json:"applicationsByDay"`
}

func applicationQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").
		Preload("Event.EventType").
		Preload("Place.Address").
		Preload("Services").
		Preload("User.Role")
}

func newApplicationResponse(a *models.Application, withUser bool) ApplicationResponse {
	response := ApplicationResponse{
		ID:             a.ID,
		Status:         a.Status.Name,
		StatusID:       a.StatusID,
		EventID:        a.EventID,
		PlaceID:        a.PlaceID,
		PlaceName:      a.Place.Name,
		PlaceAddress:   newAddressResponse(&a.Place.Address).FullAddress,
		ServiceIDs:     make([]int, 0, len(a.Services)),
		ServiceNames:   make([]string, 0, len(a.Services)),
		ContactPhone:   a.ContactPhone,
		GuestCount:     a.GuestCount,
		EventDate:      a.EventDate,
		EventTime:      a.EventTime,
		Duration:       a.Duration,
		AdditionalInfo: a.AdditionalInfo,
		EventName:      a.Event.Name,
		EventTypeName:  a.Event.EventType.Name,
		DateCreate:     a.DateCreate,
		DateUpdate:     a.DateUpdate,
	}
	for _, service := range a.Services {
		response.ServiceIDs = append(response.ServiceIDs, service.ID)
		response.ServiceNames = append(response.ServiceNames, service.Name)
	}
	if withUser {
		response.User = &UserInfo{
			ID:    a.User.ID,
			Login: a.User.Login,
			Role:  a.User.Role.Name,
		}
	}
	return response
}

func ListApplications(c *gin.Context) {
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

	pageSize := 10
	if raw := c.Query("pageSize"); raw != "" {
		parsed, err := helpers.StringToInt(raw)
		if err != nil || parsed <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page size.")
			return
		}
		pageSize = parsed
	}

	query := db.Model(&models.Application{})

	if raw := c.Query("statusId"); raw != "" {
		statusID, err := helpers.StringToInt(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid statusId.")
			return
		}
		query = query.Where("applications.status_id = ?", statusID)
	}
	if raw := c.Query("eventId"); raw != "" {
		eventID, err := helpers.StringToInt(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid eventId.")
			return
		}
		query = query.Where("applications.event_id = ?", eventID)
	}
	if raw := c.Query("placeId"); raw != "" {
		placeID, err := helpers.StringToInt(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid placeId.")
			return
		}
		query = query.Where("applications.place_id = ?", placeID)
	}
	if search := c.Query("searchQuery"); search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN users ON users.id = applications.user_id").
			Joins("JOIN events ON events.id = applications.event_id").
			Joins("JOIN places ON places.id = applications.place_id").
			Where("users.login LIKE ? OR events.name LIKE ? OR places.name LIKE ?", pattern, pattern, pattern)
	}
	if raw := c.Query("dateFrom"); raw != "" {
		dateFrom, err := helpers.ParseDate(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid dateFrom. Use YYYY-MM-DD.")
			return
		}
		query = query.Where("applications.date_create >= ?", dateFrom)
	}
	if raw := c.Query("dateTo"); raw != "" {
		dateTo, err := helpers.ParseDate(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid dateTo. Use YYYY-MM-DD.")
			return
		}
		query = query.Where("applications.date_create < ?", dateTo.AddDate(0, 0, 1))
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting applications.")
		return
	}

	var applications []models.Application
	err := applicationQuery(query).
		Order("applications.date_create DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&applications).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving applications.")
		return
	}

	response := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		response = append(response, newApplicationResponse(&applications[i], true))
	}

	helpers.RespondWithPage(c, http.StatusOK, response, "Applications retrieved.", helpers.NewPagination(page, pageSize, totalCount))
}

func GetApplication(c *gin.Context) {
	getApplicationByID(c, false)
}

// GetApplicationFull includes the submitting user alongside the booking.
func GetApplicationFull(c *gin.Context) {
	getApplicationByID(c, true)
}

func getApplicationByID(c *gin.Context, withUser bool) {
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
	if err := applicationQuery(db).First(&application, applicationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Application not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving application.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newApplicationResponse(&application, withUser), "Application retrieved.")
}

func ListMyApplications(c *gin.Context) {
	listApplicationsForCaller(c, false)
}

func ListMyApplicationsFull(c *gin.Context) {
	listApplicationsForCaller(c, true)
}

func listApplicationsForCaller(c *gin.Context, withUser bool) {
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

	var applications []models.Application
	err := applicationQuery(db).
		Where("user_id = ?", userID).
		Order("date_create DESC").
		Find(&applications).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving applications.")
		return
	}

	response := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		response = append(response, newApplicationResponse(&applications[i], withUser))
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Applications retrieved.")
}

// CreateApplication writes the event, the application and its service links
// in a single transaction so a failed step leaves no orphan rows.
func CreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
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
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not found.")
		return
	}

	var eventType models.EventType
	if err := db.First(&eventType, req.EventTypeID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Specified event type does not exist.")
		return
	}

	var place models.Place
	if err := db.First(&place, req.PlaceID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Specified place does not exist.")
		return
	}

	var services []models.Service
	if err := db.Find(&services, req.ServiceIDs).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking services.")
		return
	}
	if len(services) != len(uniqueIDs(req.ServiceIDs)) {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Validation failed.", []string{"One or more service IDs do not exist."})
		return
	}

	var eventDate *time.Time
	if req.EventDate != "" {
		parsed, err := helpers.ParseDate(req.EventDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid eventDate. Use YYYY-MM-DD.")
			return
		}
		eventDate = &parsed
	}

	now := time.Now()
	application := models.Application{
		StatusID:       newStatusID,
		UserID:         userID,
		PlaceID:        req.PlaceID,
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
		GuestCount:     req.GuestCount,
		EventDate:      eventDate,
		EventTime:      req.EventTime,
		Duration:       req.Duration,
		AdditionalInfo: strings.TrimSpace(req.AdditionalInfo),
		DateCreate:     now,
		DateUpdate:     now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		event := models.Event{
			Name:        req.EventName,
			EventTypeID: req.EventTypeID,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		application.EventID = event.ID
		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		return tx.Model(&application).Association("Services").Append(services)
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create application.")
		return
	}

	var created models.Application
	if err := applicationQuery(db).First(&created, application.ID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving created application.")
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, newApplicationResponse(&created, false), "Application created successfully.")
}

func UpdateApplication(c *gin.Context) {
	applicationID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid application ID.")
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Invalid input. Please check your fields.", []string{err.Error()})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var application models.Application
	if err := db.Preload("Event").First(&application, applicationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Application not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding application.")
		return
	}

	// Any status id that exists in the lookup table is accepted; there is
	// no transition graph.
	if req.StatusID != nil {
		var status models.Status
		if err := db.First(&status, *req.StatusID).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Specified status does not exist.")
			return
		}
		application.StatusID = *req.StatusID
	}

	if req.PlaceID != nil {
		var place models.Place
		if err := db.First(&place, *req.PlaceID).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Specified place does not exist.")
			return
		}
		application.PlaceID = *req.PlaceID
	}

	eventChanged := false
	if req.EventName != "" {
		application.Event.Name = req.EventName
		eventChanged = true
	}
	if req.EventTypeID != nil {
		var eventType models.EventType
		if err := db.First(&eventType, *req.EventTypeID).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Specified event type does not exist.")
			return
		}
		application.Event.EventTypeID = *req.EventTypeID
		eventChanged = true
	}

	var services []models.Service
	replaceServices := false
	if len(req.ServiceIDs) > 0 {
		if err := db.Find(&services, req.ServiceIDs).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking services.")
			return
		}
		if len(services) != len(uniqueIDs(req.ServiceIDs)) {
			helpers.RespondWithValidationErrors(c, http.StatusBadRequest, "Validation failed.", []string{"One or more service IDs do not exist."})
			return
		}
		replaceServices = true
	}

	if req.ContactPhone != "" {
		application.ContactPhone = req.ContactPhone
	}
	if req.GuestCount != nil {
		application.GuestCount = req.GuestCount
	}
	if req.EventDate != "" {
		parsed, err := helpers.ParseDate(req.EventDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid eventDate. Use YYYY-MM-DD.")
			return
		}
		application.EventDate = &parsed
	}
	if req.EventTime != "" {
		application.EventTime = req.EventTime
	}
	if req.Duration != nil {
		application.Duration = req.Duration
	}
	if req.AdditionalInfo != nil {
		application.AdditionalInfo = *req.AdditionalInfo
	}

	application.DateUpdate = time.Now()

	err = db.Transaction(func(tx *gorm.DB) error {
		if eventChanged {
			if err := tx.Save(&application.Event).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("Event", "Services").Save(&application).Error; err != nil {
			return err
		}
		if replaceServices {
			return tx.Model(&application).Association("Services").Replace(services)
		}
		return nil
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update application.")
		return
	}

	var updated models.Application
	if err := applicationQuery(db).First(&updated, application.ID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving updated application.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, newApplicationResponse(&updated, false), "Application updated successfully.")
}

// DeleteApplication also removes the service links and the event row the
// application created.
func DeleteApplication(c *gin.Context) {
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
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Application not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding application.")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&application).Association("Services").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&application).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, application.EventID).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete application.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, true, "Application deleted successfully.")
}

func ApplicationStats(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var total int64
	if err := db.Model(&models.Application{}).Count(&total).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting applications.")
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var todayCount int64
	if err := db.Model(&models.Application{}).Where("date_create >= ?", today).Count(&todayCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting today's applications.")
		return
	}

	var statusRows []struct {
		Name  string
		Count int
	}
	err := db.Model(&models.Application{}).
		Select("statuses.name, COUNT(*) as count").
		Joins("JOIN statuses ON statuses.id = applications.status_id").
		Group("statuses.name").
		Scan(&statusRows).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error grouping by status.")
		return
	}

	byStatus := make(map[string]int, len(statusRows))
	for _, row := range statusRows {
		byStatus[row.Name] = row.Count
	}

	windowStart := today.AddDate(0, 0, -30)
	var recentDates []time.Time
	err = db.Model(&models.Application{}).
		Where("date_create >= ?", windowStart).
		Pluck("date_create", &recentDates).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error grouping by day.")
		return
	}

	byDay := make(map[string]int)
	for _, date := range recentDates {
		byDay[date.Format("2006-01-02")]++
	}

	helpers.RespondWithData(c, http.StatusOK, ApplicationStatsResponse{
		TotalApplications: total,
		ApplicationsToday: todayCount,
		ByStatus:          byStatus,
		ByDay:             byDay,
	}, fmt.Sprintf("Statistics over %d applications.", total))
}
