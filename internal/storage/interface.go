package storage

import "context"

// UploadResult contains the result of an attachment upload
type UploadResult struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
}

// Uploader stores image attachments and returns a retrievable URL.
// The interface exists so handlers can be tested without S3.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, userID, filename string) (*UploadResult, error)
}

// Ensure S3Uploader implements Uploader
var _ Uploader = (*S3Uploader)(nil)
