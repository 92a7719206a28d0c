package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/smart-home-repair/repair-api/utils"
)

// ImageRoutePrefix is the API path under which stored scan images are served by key
const ImageRoutePrefix = "/api/v1/images/"

// StoredImage identifies a scan image after it was stored
type StoredImage struct {
	Key string // backend key, used for URL generation and deletion
	URI string // stable URI recorded on the fault report
}

// ImageService handles scan image storage, retrieval and deletion
type ImageService interface {
	// StoreImage persists the image and returns where it lives
	StoreImage(ctx context.Context, filename, contentType string, content []byte) (*StoredImage, error)

	// GetImageURL returns a URL the client can fetch the image from
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

// LocalImageService keeps images in a directory served under /api/v1/uploads
type LocalImageService struct {
	uploadDir string
}

var imageServiceInstance ImageService

// NewS3ImageService creates an image service backed by s3Service
func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// NewLocalImageService creates an image service writing into uploadDir
func NewLocalImageService(uploadDir string) *LocalImageService {
	return &LocalImageService{uploadDir: uploadDir}
}

// InitImageService sets the process image service
func InitImageService(service ImageService) ImageService {
	imageServiceInstance = service
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// StoreImage uploads the image to S3. The URI points at the API redirect, since presigned
// URLs expire.
func (s *S3ImageService) StoreImage(ctx context.Context, filename, contentType string, content []byte) (*StoredImage, error) {
	s3Key, err := s.s3Service.UploadFile(ctx, filename, content, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &StoredImage{Key: s3Key, URI: ImageRoutePrefix + s3Key}, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// StoreImage writes the image into the upload directory
func (s *LocalImageService) StoreImage(ctx context.Context, filename, contentType string, content []byte) (*StoredImage, error) {
	name, err := utils.SaveImage(content, filename, s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	return &StoredImage{Key: name, URI: utils.GetImageURL(name)}, nil
}

// GetImageURL returns the uploads route for a stored file
func (s *LocalImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	if strings.Contains(imageKey, "/") || strings.Contains(imageKey, "..") {
		return "", ErrNotFound
	}
	return utils.GetImageURL(imageKey), nil
}

// DeleteImage removes a stored file; missing files are not an error
func (s *LocalImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	return utils.RemoveImage(imageKey, s.uploadDir)
}
