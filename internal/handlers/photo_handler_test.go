package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vkarpenko/venuebook/internal/models"
)

// Smallest payload http.DetectContentType recognizes as image/png.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func uploadFileRequest(t *testing.T, r *gin.Engine, fieldName, fileName string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/photos/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// chdirTemp runs the test from a throwaway directory so uploads land there.
func chdirTemp(t *testing.T) {
	t.Helper()

	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(original); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}

func TestUploadPhoto(t *testing.T) {
	chdirTemp(t)
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "upload-user")

	w := uploadFileRequest(t, r, "file", "venue.png", pngSignature, auth.Token)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload returned %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	decodeData(t, w, &created)
	if !strings.HasPrefix(created.Name, "/uploads/photos/") {
		t.Fatalf("unexpected stored name %q", created.Name)
	}
	if !strings.HasSuffix(created.Name, ".png") {
		t.Fatalf("expected original extension kept, got %q", created.Name)
	}

	if _, err := os.Stat(strings.TrimPrefix(created.Name, "/")); err != nil {
		t.Fatalf("uploaded file not found on disk: %v", err)
	}
	if n := countRows(t, db, &models.Photo{}); n != 1 {
		t.Fatalf("expected one photo row, got %d", n)
	}
}

func TestUploadPhotoRejectsNonImage(t *testing.T) {
	chdirTemp(t)
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "upload-text")

	w := uploadFileRequest(t, r, "file", "notes.txt", []byte("plain text, not an image"), auth.Token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d: %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	if env.Success {
		t.Fatal("expected success=false")
	}
	if n := countRows(t, db, &models.Photo{}); n != 0 {
		t.Fatalf("expected no photo rows, got %d", n)
	}
}

func TestUploadPhotoRejectsOversize(t *testing.T) {
	chdirTemp(t)
	r, db := newTestRouter(t)
	auth := registerUser(t, r, "upload-big")

	oversized := make([]byte, 5*1024*1024+1)
	copy(oversized, pngSignature)

	w := uploadFileRequest(t, r, "file", "huge.png", oversized, auth.Token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized upload, got %d: %s", w.Code, w.Body.String())
	}
	if n := countRows(t, db, &models.Photo{}); n != 0 {
		t.Fatalf("expected no photo rows, got %d", n)
	}
}

func TestUploadPhotoMissingFile(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := registerUser(t, r, "upload-empty")

	w := doRequest(t, r, http.MethodPost, "/api/photos/upload", nil, auth.Token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing file, got %d: %s", w.Code, w.Body.String())
	}
}
