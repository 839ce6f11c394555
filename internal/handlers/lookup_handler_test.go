package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vkarpenko/venuebook/internal/models"
)

func TestListStatusesSeeded(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/statuses", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("statuses returned %d: %s", w.Code, w.Body.String())
	}

	var statuses []models.Status
	decodeData(t, w, &statuses)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 seeded statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "New" || statuses[3].Name != "Cancelled" {
		t.Fatalf("unexpected status order %+v", statuses)
	}
}

func TestListEquipmentsOrdered(t *testing.T) {
	r, db := newTestRouter(t)
	for _, name := range []string{"Screen", "Microphone", "Projector"} {
		if err := db.Create(&models.Equipment{Name: name}).Error; err != nil {
			t.Fatalf("failed to create equipment: %v", err)
		}
	}

	w := doRequest(t, r, http.MethodGet, "/api/equipments", nil, "")
	var equipments []models.Equipment
	decodeData(t, w, &equipments)
	if len(equipments) != 3 {
		t.Fatalf("expected 3 equipments, got %d", len(equipments))
	}
	if equipments[0].Name != "Microphone" || equipments[2].Name != "Screen" {
		t.Fatalf("expected name ordering, got %+v", equipments)
	}
}

func TestGetEventWithType(t *testing.T) {
	r, db := newTestRouter(t)
	eventType := createTestEventType(t, db, "Conference")
	event := models.Event{Name: "DevConf", EventTypeID: eventType.ID}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/events/%d", event.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get event returned %d: %s", w.Code, w.Body.String())
	}

	var fetched struct {
		ID            int    `json:"id"`
		Name          string `json:"name"`
		EventTypeName string `json:"eventTypeName"`
	}
	decodeData(t, w, &fetched)
	if fetched.Name != "DevConf" || fetched.EventTypeName != "Conference" {
		t.Fatalf("unexpected event %+v", fetched)
	}
}

func TestGetEventNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/events/999", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListEventTypes(t *testing.T) {
	r, db := newTestRouter(t)
	createTestEventType(t, db, "Wedding")
	createTestEventType(t, db, "Birthday")

	w := doRequest(t, r, http.MethodGet, "/api/events-type", nil, "")
	var eventTypes []models.EventType
	decodeData(t, w, &eventTypes)
	if len(eventTypes) != 2 || eventTypes[0].Name != "Birthday" {
		t.Fatalf("unexpected event types %+v", eventTypes)
	}
}

func TestCreatePhotoByName(t *testing.T) {
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "photo-user")

	w := doRequest(t, r, http.MethodPost, "/api/photos", gin.H{
		"name": "/uploads/photos/venue.png",
	}, auth.Token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create photo returned %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	decodeData(t, w, &created)
	if created.Name != "/uploads/photos/venue.png" {
		t.Fatalf("unexpected photo %+v", created)
	}

	if n := countRows(t, db, &models.Photo{}); n != 1 {
		t.Fatalf("expected one photo row, got %d", n)
	}
}
