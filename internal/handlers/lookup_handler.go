package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/middleware"
	"github.com/vkarpenko/venuebook/internal/models"
)

type EventResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	EventTypeID   int    `json:"eventTypeId"`
	EventTypeName string `json:"eventTypeName"`
}

func ListEquipments(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var equipments []models.Equipment
	if err := db.Order("name").Find(&equipments).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving equipment.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, equipments, "Equipment retrieved.")
}

func ListCharacteristics(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var characteristics []models.Characteristic
	if err := db.Order("name").Find(&characteristics).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving characteristics.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, characteristics, "Characteristics retrieved.")
}

func ListServices(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var services []models.Service
	if err := db.Order("name").Find(&services).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving services.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, services, "Services retrieved.")
}

func ListStatuses(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var statuses []models.Status
	if err := db.Order("id").Find(&statuses).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving statuses.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, statuses, "Statuses retrieved.")
}

func ListEvents(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var events []models.Event
	if err := db.Preload("EventType").Order("name").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	response := make([]EventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, EventResponse{
			ID:            event.ID,
			Name:          event.Name,
			EventTypeID:   event.EventTypeID,
			EventTypeName: event.EventType.Name,
		})
	}

	helpers.RespondWithData(c, http.StatusOK, response, "Events retrieved.")
}

func GetEvent(c *gin.Context) {
	eventID, err := helpers.StringToInt(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var event models.Event
	if err := db.Preload("EventType").First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, EventResponse{
		ID:            event.ID,
		Name:          event.Name,
		EventTypeID:   event.EventTypeID,
		EventTypeName: event.EventType.Name,
	}, "Event retrieved.")
}

func ListEventTypes(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var eventTypes []models.EventType
	if err := db.Order("name").Find(&eventTypes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event types.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, eventTypes, "Event types retrieved.")
}
