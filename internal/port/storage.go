package port

import (
	"context"
	"io"
)

// UploadInput describes one object to store. Size is advisory; the
// implementation streams Body regardless.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput reports where a stored object landed.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage is the blob-store boundary. Download returns the whole
// object because extraction needs the full document text in memory anyway.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
