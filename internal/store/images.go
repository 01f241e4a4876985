package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/recycleme/backend/internal/errs"
)

type imageStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewImageStore(client *storage.Client, bucketName string) *imageStore {
	return &imageStore{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}
}

// UploadImage stores the bytes under recycling_images/ and returns a public
// URL for them.
func (s *imageStore) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	obj := s.bucket.Object(fmt.Sprintf("recycling_images/%s", uuid.NewString()))

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", errs.NewExternalServiceError("storage", "failed to upload image", true, err)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewExternalServiceError("storage", "failed to upload image", true, err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", errs.NewExternalServiceError("storage", "failed to publish image", true, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, obj.ObjectName()), nil
}
