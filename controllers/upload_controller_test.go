package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/smart-home-repair/repair-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadsRouter points utils.UploadDir at a temp dir seeded with files
func uploadsRouter(t *testing.T, files map[string]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	previous := utils.UploadDir
	utils.UploadDir = dir
	t.Cleanup(func() { utils.UploadDir = previous })

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	router := gin.New()
	router.GET("/uploads/:filename", GetUploadedImage)
	return router
}

func TestGetUploadedImage_ServesStoredScans(t *testing.T) {
	router := uploadsRouter(t, map[string]string{
		"kitchen.png": "png bytes",
		"outlet.PNG":  "upper png",
		"sink.jpg":    "jpg bytes",
		"wall.JPEG":   "jpeg bytes",
	})

	tests := []struct {
		filename    string
		contentType string
		body        string
	}{
		{"kitchen.png", "image/png", "png bytes"},
		{"outlet.PNG", "image/png", "upper png"},
		{"sink.jpg", "image/jpeg", "jpg bytes"},
		{"wall.JPEG", "image/jpeg", "jpeg bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/"+tt.filename, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestGetUploadedImage_Rejections(t *testing.T) {
	router := uploadsRouter(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing file", "/uploads/nothing.png", http.StatusNotFound, "FILE_NOT_FOUND"},
		{"no filename", "/uploads/", http.StatusNotFound, ""},
		// the router splits on slashes, so these never reach the handler
		{"parent traversal", "/uploads/../../../etc/passwd", http.StatusNotFound, ""},
		{"nested path", "/uploads/a/b.png", http.StatusNotFound, ""},
		{"backslashes", "/uploads/a\\b.png", http.StatusBadRequest, "INVALID_FILENAME"},
		{"leading dots", "/uploads/..b.png", http.StatusBadRequest, "INVALID_FILENAME"},
		{"gif", "/uploads/clip.gif", http.StatusBadRequest, "INVALID_FILE_TYPE"},
		{"no extension", "/uploads/scan", http.StatusBadRequest, "INVALID_FILE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
			}
		})
	}
}

func TestGetUploadedImage_RoundTripThroughLocalImageService(t *testing.T) {
	router := uploadsRouter(t, nil)
	images := services.NewLocalImageService(utils.UploadDir)

	stored, err := images.StoreImage(t.Context(), "boiler.jpg", "image/jpeg", []byte("boiler"))
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/uploads/"+stored.Key, stored.URI)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/"+stored.Key, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "boiler", w.Body.String())
}

func TestGetStoredImage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	t.Cleanup(func() { services.SetImageService(nil) })

	stored, err := mockImages.StoreImage(t.Context(), "wall.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)

	router := gin.New()
	router.GET("/images/*key", GetStoredImage)

	t.Run("redirects to the image URL", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/images/"+stored.Key, nil))

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://mock-storage.example.com/"+stored.Key, w.Header().Get("Location"))
	})

	t.Run("unknown key", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/images/scans/missing.jpg", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "FILE_NOT_FOUND", errorCode(t, w))
	})
}
