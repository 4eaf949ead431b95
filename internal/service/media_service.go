package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"alcyxob/reptrack/internal/storage"

	"github.com/google/uuid"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/heic": "heic",
}

// UploadTicket tells the client where to PUT an image and which key to
// reference afterwards.
type UploadTicket struct {
	UploadURL string
	ObjectKey string
	ExpiresAt time.Time
}

type MediaService interface {
	ImageUploadURL(ctx context.Context, userID, contentType string) (*UploadTicket, error)
	ImageDownloadURL(ctx context.Context, objectKey string) (string, error)
	// DeleteImage removes an image uploaded by userID.
	DeleteImage(ctx context.Context, userID, objectKey string) error
}

type mediaService struct {
	files  storage.FileStorage
	expiry time.Duration
	now    func() time.Time
}

func NewMediaService(files storage.FileStorage, expiry time.Duration) MediaService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &mediaService{files: files, expiry: expiry, now: time.Now}
}

func (s *mediaService) ImageUploadURL(ctx context.Context, userID, contentType string) (*UploadTicket, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, contentType)
	}
	key := path.Join(imagePrefix(userID), uuid.NewString()+"."+ext)
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTicket{UploadURL: url, ObjectKey: key, ExpiresAt: s.now().Add(s.expiry)}, nil
}

func (s *mediaService) ImageDownloadURL(ctx context.Context, objectKey string) (string, error) {
	if !strings.HasPrefix(objectKey, "images/") {
		return "", fmt.Errorf("%w: not an image key", ErrInvalidInput)
	}
	return s.files.GeneratePresignedDownloadURL(ctx, objectKey, s.expiry)
}

func (s *mediaService) DeleteImage(ctx context.Context, userID, objectKey string) error {
	if path.Clean(objectKey) != objectKey || !strings.HasPrefix(objectKey, imagePrefix(userID)+"/") {
		return ErrForbidden
	}
	return s.files.DeleteObject(ctx, objectKey)
}

func imagePrefix(userID string) string {
	return path.Join("images", userID)
}
