package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/vkarpenko/venuebook/internal/models"
)

type favoriteView struct {
	ID      int `json:"id"`
	PlaceID int `json:"placeId"`
	Place   struct {
		ID      int         `json:"id"`
		Name    string      `json:"name"`
		Address addressView `json:"address"`
	} `json:"place"`
}

type historyView struct {
	ID       int       `json:"id"`
	PlaceID  int       `json:"placeId"`
	ViewedAt time.Time `json:"viewedAt"`
}

func TestFavoritesFlow(t *testing.T) {
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "fav-user")
	address := createTestAddress(t, db, "Moscow", "Arbat")
	place := createTestPlace(t, db, "Hall", address.ID)

	favPath := fmt.Sprintf("/api/user/favorites/%d", place.ID)

	w := doRequest(t, r, http.MethodGet, favPath+"/check", nil, auth.Token)
	var isFavorite bool
	decodeData(t, w, &isFavorite)
	if isFavorite {
		t.Fatal("place should not be a favorite yet")
	}

	w = doRequest(t, r, http.MethodPost, favPath, nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("add favorite returned %d: %s", w.Code, w.Body.String())
	}

	// Adding twice keeps a single row.
	w = doRequest(t, r, http.MethodPost, favPath, nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat add returned %d: %s", w.Code, w.Body.String())
	}
	if n := countRows(t, db, &models.UserFavorite{}); n != 1 {
		t.Fatalf("expected one favorite row, got %d", n)
	}

	w = doRequest(t, r, http.MethodGet, "/api/user/favorites", nil, auth.Token)
	var favorites []favoriteView
	decodeData(t, w, &favorites)
	if len(favorites) != 1 || favorites[0].Place.Name != "Hall" {
		t.Fatalf("unexpected favorites %+v", favorites)
	}

	w = doRequest(t, r, http.MethodDelete, favPath, nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("remove favorite returned %d: %s", w.Code, w.Body.String())
	}
	if n := countRows(t, db, &models.UserFavorite{}); n != 0 {
		t.Fatalf("expected favorites cleared, got %d", n)
	}
}

func TestAddFavoriteUnknownPlace(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := registerUser(t, r, "fav-lost")

	w := doRequest(t, r, http.MethodPost, "/api/user/favorites/999", nil, auth.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestViewHistoryUpsert(t *testing.T) {
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "history-user")
	address := createTestAddress(t, db, "Moscow", "Arbat")
	place := createTestPlace(t, db, "Hall", address.ID)

	historyPath := fmt.Sprintf("/api/user/view-history/%d", place.ID)

	w := doRequest(t, r, http.MethodPost, historyPath, nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("add view returned %d: %s", w.Code, w.Body.String())
	}

	var first models.UserViewHistory
	if err := db.Where("user_id = ?", auth.UserID).First(&first).Error; err != nil {
		t.Fatalf("history row not found: %v", err)
	}

	w = doRequest(t, r, http.MethodPost, historyPath, nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat view returned %d: %s", w.Code, w.Body.String())
	}

	if n := countRows(t, db, &models.UserViewHistory{}); n != 1 {
		t.Fatalf("expected one history row, got %d", n)
	}

	var second models.UserViewHistory
	if err := db.Where("user_id = ?", auth.UserID).First(&second).Error; err != nil {
		t.Fatalf("history row not found: %v", err)
	}
	if second.ViewedAt.Before(first.ViewedAt) {
		t.Fatalf("expected timestamp bumped, got %v before %v", second.ViewedAt, first.ViewedAt)
	}
}

func TestViewHistoryLimitAndClear(t *testing.T) {
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "history-heavy")
	address := createTestAddress(t, db, "Moscow", "Arbat")

	for i := 0; i < 5; i++ {
		place := createTestPlace(t, db, fmt.Sprintf("Hall %d", i), address.ID)
		entry := models.UserViewHistory{
			UserID:   auth.UserID,
			PlaceID:  place.ID,
			ViewedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("failed to create history entry: %v", err)
		}
	}

	w := doRequest(t, r, http.MethodGet, "/api/user/view-history?limit=3", nil, auth.Token)
	var history []historyView
	decodeData(t, w, &history)
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].ViewedAt.After(history[i-1].ViewedAt) {
			t.Fatal("expected newest-first ordering")
		}
	}

	w = doRequest(t, r, http.MethodDelete, "/api/user/view-history", nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("clear returned %d: %s", w.Code, w.Body.String())
	}
	if n := countRows(t, db, &models.UserViewHistory{}); n != 0 {
		t.Fatalf("expected history cleared, got %d", n)
	}
}
