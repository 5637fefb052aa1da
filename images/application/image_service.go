package application

import (
	"context"
	"fmt"
	"time"

	"imagevault/images/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImageUpload carries everything the handler collected from a multipart
// upload. Description and Tags stay nil when the form fields were absent.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	Size        int64
	OwnerID     string
	Description *string
	Tags        *string
}

// ImageService owns the image lifecycle: validation, identifier and timestamp
// assignment, and delegation to the repository. It performs no ownership
// checks; handlers gate access before calling in.
type ImageService struct {
	repo domain.ImageRepository
}

func NewImageService(repo domain.ImageRepository) *ImageService {
	return &ImageService{
		repo: repo,
	}
}

// Save validates the upload, assigns a fresh identifier and creation
// timestamp, and persists the record. Invariant violations come back as
// *domain.ValidationError.
func (s *ImageService) Save(ctx context.Context, upload ImageUpload) (*domain.Image, error) {
	img := &domain.Image{
		ID:          uuid.NewString(),
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Data:        upload.Data,
		Size:        upload.Size,
		CreatedAt:   time.Now().UTC(),
		Description: upload.Description,
		Tags:        upload.Tags,
		OwnerID:     upload.OwnerID,
	}

	if err := img.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	log.Info().
		Str("id", img.ID).
		Str("file_name", img.FileName).
		Str("owner", img.OwnerID).
		Msg("Image saved")

	return img, nil
}

// GetByID retrieves a single record, domain.ErrImageNotFound when absent.
func (s *ImageService) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByOwner returns the owner's records, newest first.
func (s *ImageService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Image, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// UpdateMetadata overwrites description and tags (nil clears a field), stamps
// the update timestamp, and returns the updated record.
func (s *ImageService) UpdateMetadata(ctx context.Context, id string, description, tags *string) (*domain.Image, error) {
	if err := domain.ValidateMetadata(description, tags); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMetadata(ctx, id, description, tags, time.Now().UTC()); err != nil {
		return nil, err
	}

	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().Str("id", id).Msg("Image metadata updated")

	return img, nil
}

// Delete removes a record permanently. Returns false when the id is unknown.
func (s *ImageService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		log.Info().Str("id", id).Msg("Image deleted")
	}

	return deleted, nil
}
