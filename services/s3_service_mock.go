package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockS3Service keeps uploaded files in memory for tests and local runs without a bucket
type MockS3Service struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockS3Service creates an empty in-memory store
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{files: make(map[string][]byte)}
}

// SetAsMockForTesting installs this mock as the global S3 service
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

func (m *MockS3Service) UploadFile(_ context.Context, key string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()
	return nil
}

func (m *MockS3Service) GetPresignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.files[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

func (m *MockS3Service) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// FileExists reports whether key was uploaded
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}

// Files returns a copy of the stored files
func (m *MockS3Service) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}
