package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageStore persists decoded image blobs and returns a public URL.
type ImageStore interface {
	Save(ctx context.Context, data []byte, key string) (string, error)
}

// DecodeBase64Image decodes an inline image payload. A
// "data:image/...;base64," header, when present, is stripped before
// decoding.
func DecodeBase64Image(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:image") {
		if _, rest, ok := strings.Cut(payload, ";base64,"); ok {
			payload = rest
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return data, nil
}

// ImageService decodes embedded image payloads and hands them to the
// configured store.
type ImageService struct {
	store ImageStore
}

// NewImageService creates a new ImageService instance
func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// DecodeAndStore decodes a base64 payload and saves it under a fresh
// key below keyPrefix, returning the stored object's URL.
func (s *ImageService) DecodeAndStore(ctx context.Context, payload, keyPrefix string) (string, error) {
	data, err := DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", keyPrefix, uuid.New().String(), extensionFor(data))
	return s.store.Save(ctx, data, key)
}

func extensionFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// S3ImageStore stores images in the configured S3 bucket and serves
// them through the bucket's public URL.
type S3ImageStore struct {
	s3Config *config.S3Config
}

// NewS3ImageStore creates a new S3ImageStore instance
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Save uploads image data to S3 and returns the public URL
func (s *S3ImageStore) Save(ctx context.Context, data []byte, key string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
