package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vkarpenko/venuebook/internal/models"
)

type userView struct {
	ID     int    `json:"id"`
	Login  string `json:"login"`
	Role   string `json:"role"`
	RoleID int    `json:"roleId"`
}

func TestGetMe(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := registerUser(t, r, "me-user")

	w := doRequest(t, r, http.MethodGet, "/api/users/me", nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", w.Code, w.Body.String())
	}

	var me userView
	decodeData(t, w, &me)
	if me.ID != auth.UserID || me.Login != "me-user" || me.Role != "user" {
		t.Fatalf("unexpected me %+v", me)
	}
}

func TestListUsersPagination(t *testing.T) {
	r, _ := newTestRouter(t)
	for i := 0; i < 5; i++ {
		registerUser(t, r, fmt.Sprintf("user-%d", i))
	}

	w := doRequest(t, r, http.MethodGet, "/api/users?page=1&pageSize=2", nil, "")
	var page []userView
	env := decodeData(t, w, &page)
	if len(page) != 2 {
		t.Fatalf("expected 2 users on page, got %d", len(page))
	}
	if env.Pagination == nil || env.Pagination.TotalCount != 5 || env.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination %+v", env.Pagination)
	}
}

func TestSearchUsers(t *testing.T) {
	r, _ := newTestRouter(t)
	registerUser(t, r, "anna-search")
	registerUser(t, r, "boris-search")

	w := doRequest(t, r, http.MethodGet, "/api/users/search?term=anna", nil, "")
	var found []userView
	decodeData(t, w, &found)
	if len(found) != 1 || found[0].Login != "anna-search" {
		t.Fatalf("unexpected search result %+v", found)
	}
}

func TestChangeUserRole(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := registerUser(t, r, "role-admin")
	target := registerUser(t, r, "role-target")

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d/role", target.UserID), gin.H{
		"roleId": 2,
	}, admin.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("change role returned %d: %s", w.Code, w.Body.String())
	}

	var changed userView
	decodeData(t, w, &changed)
	if changed.RoleID != 2 || changed.Role != "manager" {
		t.Fatalf("unexpected role %+v", changed)
	}
}

func TestChangeUserRoleUnknownRole(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := registerUser(t, r, "role-admin2")
	target := registerUser(t, r, "role-target2")

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d/role", target.UserID), gin.H{
		"roleId": 99,
	}, admin.Token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", w.Code)
	}
}

func TestUpdateUserLoginConflict(t *testing.T) {
	r, _ := newTestRouter(t)
	first := registerUser(t, r, "taken-login")
	second := registerUser(t, r, "free-login")

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", second.UserID), gin.H{
		"login": "taken-login",
	}, second.Token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate login, got %d: %s", w.Code, w.Body.String())
	}
	_ = first
}

func TestDeleteUserBlockedByApplication(t *testing.T) {
	r, db := newTestRouter(t)
	f := newBookingFixture(t, r, db, "busy-user")
	createBooking(t, r, f)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", f.auth.UserID), nil, f.auth.Token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for user with applications, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserCascades(t *testing.T) {
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "leaving-user")
	address := createTestAddress(t, db, "Moscow", "Arbat")
	place := createTestPlace(t, db, "Hall", address.ID)
	seedReview(t, db, place.ID, auth.UserID, 4)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", auth.UserID), nil, auth.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", w.Code, w.Body.String())
	}

	if n := countRows(t, db, &models.User{}); n != 0 {
		t.Fatalf("expected user removed, got %d rows", n)
	}
	if n := countRows(t, db, &models.PlaceReview{}); n != 0 {
		t.Fatalf("expected reviews removed, got %d rows", n)
	}
}

func TestListUsersByRole(t *testing.T) {
	r, _ := newTestRouter(t)
	registerUser(t, r, "plain-user")

	w := doRequest(t, r, http.MethodGet, "/api/users/by-role/3", nil, "")
	var found []userView
	decodeData(t, w, &found)
	if len(found) != 1 || found[0].Login != "plain-user" {
		t.Fatalf("unexpected by-role result %+v", found)
	}

	w = doRequest(t, r, http.MethodGet, "/api/users/by-role/1", nil, "")
	found = nil
	decodeData(t, w, &found)
	if len(found) != 0 {
		t.Fatalf("expected no admins, got %+v", found)
	}
}
