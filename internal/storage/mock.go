package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// MockUploader is an in-memory Uploader for tests and storage-less
// deployments. Uploaded bytes are retained for assertions.
type MockUploader struct {
	mu      sync.Mutex
	objects map[string][]byte

	// UploadImageFunc overrides the default behavior when set
	UploadImageFunc func(ctx context.Context, data []byte, userID, filename string) (*UploadResult, error)
}

// NewMockUploader creates an empty mock uploader
func NewMockUploader() *MockUploader {
	return &MockUploader{objects: make(map[string][]byte)}
}

func (m *MockUploader) UploadImage(ctx context.Context, data []byte, userID, filename string) (*UploadResult, error) {
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(ctx, data, userID, filename)
	}

	extension := strings.ToLower(filepath.Ext(filename))
	mediaType := imageContentType(extension)
	if mediaType == "" {
		return nil, fmt.Errorf("unsupported image type %q", extension)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("images/%s/%d%s", userID, len(m.objects), extension)
	m.objects[key] = append([]byte(nil), data...)

	return &UploadResult{
		Key:       key,
		URL:       "https://mock.local/" + key,
		MediaType: mediaType,
		Size:      int64(len(data)),
	}, nil
}

// Object returns the stored bytes for a key. Test helper.
func (m *MockUploader) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// Ensure MockUploader implements Uploader
var _ Uploader = (*MockUploader)(nil)
