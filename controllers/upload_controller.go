package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/smart-home-repair/repair-api/utils"
)

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves locally stored scan images
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Validate filename is not empty
	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if !utils.IsAllowedImage(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only JPEG and PNG files are supported")
		return
	}

	filePath := filepath.Join(utils.UploadDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", utils.ContentTypeFor(filename))
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}

// GetStoredImage handles GET /api/v1/images/*key - redirects to a fetchable URL for the image
func GetStoredImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid image key")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image storage is not configured")
		return
	}

	url, err := imageService.GetImageURL(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "IMAGE_URL_ERROR", "Failed to generate image URL")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}
