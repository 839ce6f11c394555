package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vkarpenko/venuebook/config"
	"github.com/vkarpenko/venuebook/internal/helpers"
	"github.com/vkarpenko/venuebook/internal/models"
	"github.com/vkarpenko/venuebook/internal/server"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Errors     []string            `json:"errors"`
	Pagination *helpers.Pagination `json:"pagination"`
}

// newTestRouter builds a fresh in-memory database and a full router on top
// of it. The single connection keeps sqlite's :memory: database alive for
// the whole test.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.MigrateAndSeed(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return server.NewRouter(db), db
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()

	env := decodeEnvelope(t, w)
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data %q: %v", string(env.Data), err)
	}
	return env
}

type authInfo struct {
	UserID int    `json:"userId"`
	Login  string `json:"login"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

func registerUser(t *testing.T, r *gin.Engine, login string) authInfo {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"login":    login,
		"password": "secret123",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s returned %d: %s", login, w.Code, w.Body.String())
	}

	var auth authInfo
	decodeData(t, w, &auth)
	return auth
}

func createTestAddress(t *testing.T, db *gorm.DB, city, street string) models.Address {
	t.Helper()

	address := models.Address{City: city, Street: street, House: "1"}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("failed to create address: %v", err)
	}
	return address
}

func createTestPlace(t *testing.T, db *gorm.DB, name string, addressID int) models.Place {
	t.Helper()

	place := models.Place{Name: name, AddressID: addressID}
	if err := db.Create(&place).Error; err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	return place
}

func createTestEventType(t *testing.T, db *gorm.DB, name string) models.EventType {
	t.Helper()

	eventType := models.EventType{Name: name}
	if err := db.Create(&eventType).Error; err != nil {
		t.Fatalf("failed to create event type: %v", err)
	}
	return eventType
}

func createTestService(t *testing.T, db *gorm.DB, name string) models.Service {
	t.Helper()

	service := models.Service{Name: name}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func seedReview(t *testing.T, db *gorm.DB, placeID, userID, rating int) {
	t.Helper()

	review := models.PlaceReview{
		PlaceID:   placeID,
		UserID:    userID,
		Rating:    rating,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func placePath(id int, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/api/places/%d", id)
	}
	return fmt.Sprintf("/api/places/%d/%s", id, suffix)
}
