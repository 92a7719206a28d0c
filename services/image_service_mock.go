package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	uploadedImages map[string][]byte // map of image key to file content
	failStore      error
	mu             sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		uploadedImages: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// FailStore makes StoreImage return err; nil restores normal behaviour
func (m *MockImageService) FailStore(err error) {
	m.mu.Lock()
	m.failStore = err
	m.mu.Unlock()
}

// StoreImage simulates storing an image
func (m *MockImageService) StoreImage(ctx context.Context, filename, contentType string, content []byte) (*StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failStore != nil {
		return nil, m.failStore
	}

	key := fmt.Sprintf("mock_%d_%s", len(m.uploadedImages)+1, filepath.Base(filename))
	m.uploadedImages[key] = append([]byte(nil), content...)
	return &StoredImage{Key: key, URI: "mock://images/" + key}, nil
}

// GetImageURL simulates generating an image URL
func (m *MockImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploadedImages[imageKey]
	m.mu.RUnlock()

	if !exists {
		return "", ErrNotFound
	}
	return fmt.Sprintf("https://mock-storage.example.com/%s", imageKey), nil
}

// DeleteImage simulates deleting an image
func (m *MockImageService) DeleteImage(ctx context.Context, imageKey string) error {
	m.mu.Lock()
	delete(m.uploadedImages, imageKey)
	m.mu.Unlock()
	return nil
}

// ImageCount returns how many images are stored (for testing assertions)
func (m *MockImageService) ImageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uploadedImages)
}

// ImageExists checks if an image exists in mock storage
func (m *MockImageService) ImageExists(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedImages[imageKey]
	return exists
}
