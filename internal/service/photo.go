package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/ataredge/tutorhub/internal/storage"
	"github.com/ataredge/tutorhub/internal/validation"
	"github.com/google/uuid"
)

var ErrInvalidPhoto = errors.New("invalid photo")

// PhotoService stores tutor profile photos.
type PhotoService struct {
	storage storage.Storage
}

func NewPhotoService(storage storage.Storage) *PhotoService {
	return &PhotoService{storage: storage}
}

// Save validates the upload and stores it under a fresh name, returning the storage path.
func (s *PhotoService) Save(ctx context.Context, accountID string, header *multipart.FileHeader) (string, error) {
	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := path.Join("tutors", accountID, uuid.New().String()+ext)

	err = s.storage.Save(ctx, storagePath, file)
	if err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}

	slog.Info("photo stored", "account_id", accountID, "path", storagePath)
	return storagePath, nil
}

// URL resolves a stored photo reference. Absolute URLs and site paths from
// seeded rows pass through unchanged.
func (s *PhotoService) URL(photo string) string {
	if strings.HasPrefix(photo, "http://") || strings.HasPrefix(photo, "https://") || strings.HasPrefix(photo, "/") {
		return photo
	}
	return s.storage.URL(photo)
}

// Remove deletes a stored photo, best effort.
func (s *PhotoService) Remove(ctx context.Context, photo string) {
	if photo == "" || photo != strings.TrimLeft(photo, "/") || strings.Contains(photo, "://") {
		return
	}
	err := s.storage.Delete(ctx, photo)
	if err != nil {
		slog.Error("failed to delete photo", "error", err, "path", photo)
	}
}
