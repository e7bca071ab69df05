package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageContentType(t *testing.T) {
	cases := map[string]string{
		".jpg":  "image/jpeg",
		".JPG":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
		".mp3":  "",
		".exe":  "",
		"":      "",
	}
	for ext, want := range cases {
		assert.Equal(t, want, imageContentType(ext), "extension %q", ext)
	}
}

func TestMockUploaderStoresImage(t *testing.T) {
	m := NewMockUploader()
	data := []byte("fake image bytes")

	result, err := m.UploadImage(context.Background(), data, "user-1", "selfie.png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.MediaType)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.True(t, strings.HasPrefix(result.Key, "images/user-1/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Contains(t, result.URL, result.Key)

	stored, ok := m.Object(result.Key)
	require.True(t, ok)
	assert.Equal(t, data, stored)
}

func TestMockUploaderRejectsNonImages(t *testing.T) {
	m := NewMockUploader()
	_, err := m.UploadImage(context.Background(), []byte("x"), "user-1", "track.mp3")
	assert.Error(t, err)
}

func TestMockUploaderOverride(t *testing.T) {
	m := NewMockUploader()
	m.UploadImageFunc = func(ctx context.Context, data []byte, userID, filename string) (*UploadResult, error) {
		return &UploadResult{Key: "fixed"}, nil
	}

	result, err := m.UploadImage(context.Background(), nil, "u", "a.png")
	require.NoError(t, err)
	assert.Equal(t, "fixed", result.Key)
}
