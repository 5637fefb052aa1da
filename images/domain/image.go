package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MaxFileSize is the largest accepted image payload, in bytes.
const MaxFileSize = 10 * 1024 * 1024

const (
	maxFileNameLen    = 255
	maxContentTypeLen = 100
	maxDescriptionLen = 1000
	maxTagsLen        = 500
	maxOwnerIDLen     = 255
)

// supportedContentTypes is the allow-list of MIME types accepted on upload.
// Lookups are case-insensitive.
var supportedContentTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/bmp":     {},
	"image/svg+xml": {},
}

// Image is a stored image record: the binary payload plus its metadata.
// FileName, ContentType, and Data are immutable after creation; only
// Description and Tags may change, which also stamps UpdatedAt.
type Image struct {
	ID          string
	FileName    string
	ContentType string
	Data        []byte
	Size        int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Description *string
	Tags        *string
	OwnerID     string
}

// ValidationError reports a violated image invariant. It maps to a 400 at the
// transport layer.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrf(rule, format string, args ...any) *ValidationError {
	return &ValidationError{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrImageNotFound signals an absent record. Repositories return it instead
// of a bare sql.ErrNoRows so callers can map it to a 404.
var ErrImageNotFound = fmt.Errorf("image not found")

// IsSupportedContentType reports whether the given MIME type is on the upload
// allow-list.
func IsSupportedContentType(contentType string) bool {
	_, ok := supportedContentTypes[strings.ToLower(contentType)]
	return ok
}

// SupportedContentTypes returns the allow-list for error messages.
func SupportedContentTypes() []string {
	types := make([]string, 0, len(supportedContentTypes))
	for t := range supportedContentTypes {
		types = append(types, t)
	}
	return types
}

// Validate checks every invariant on the record. It returns a
// *ValidationError naming the first violated rule, or nil.
func (i *Image) Validate() error {
	if strings.TrimSpace(i.FileName) == "" {
		return validationErrf("file_name", "file name cannot be empty")
	}
	if len(i.FileName) > maxFileNameLen {
		return validationErrf("file_name", "file name exceeds %d characters", maxFileNameLen)
	}
	if strings.TrimSpace(i.ContentType) == "" {
		return validationErrf("content_type", "content type cannot be empty")
	}
	if len(i.ContentType) > maxContentTypeLen {
		return validationErrf("content_type", "content type exceeds %d characters", maxContentTypeLen)
	}
	if !IsSupportedContentType(i.ContentType) {
		return validationErrf("content_type", "unsupported content type: %s", i.ContentType)
	}
	if len(i.Data) == 0 {
		return validationErrf("data", "image data cannot be empty")
	}
	if i.Size <= 0 {
		return validationErrf("size", "file size must be positive")
	}
	if i.Size > MaxFileSize {
		return validationErrf("size", "file exceeds maximum size of %d MB", MaxFileSize/(1024*1024))
	}
	if i.Size != int64(len(i.Data)) {
		return validationErrf("size", "file size does not match payload length")
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		return validationErrf("description", "description exceeds %d characters", maxDescriptionLen)
	}
	if i.Tags != nil && len(*i.Tags) > maxTagsLen {
		return validationErrf("tags", "tags exceed %d characters", maxTagsLen)
	}
	if len(i.OwnerID) > maxOwnerIDLen {
		return validationErrf("owner_id", "owner id exceeds %d characters", maxOwnerIDLen)
	}
	return nil
}

// ValidateMetadata checks the optional-field limits for a metadata update.
func ValidateMetadata(description, tags *string) error {
	if description != nil && len(*description) > maxDescriptionLen {
		return validationErrf("description", "description exceeds %d characters", maxDescriptionLen)
	}
	if tags != nil && len(*tags) > maxTagsLen {
		return validationErrf("tags", "tags exceed %d characters", maxTagsLen)
	}
	return nil
}

// OwnedBy reports whether userID owns this record. An empty userID never
// owns anything; comparison is exact and case-sensitive.
func (i *Image) OwnedBy(userID string) bool {
	return userID != "" && i.OwnerID == userID
}

type ImageRepository interface {
	// Insert persists a new record. The caller has already assigned ID and
	// CreatedAt.
	Insert(ctx context.Context, img *Image) error

	// GetByID retrieves a single record, ErrImageNotFound when absent.
	GetByID(ctx context.Context, id string) (*Image, error)

	// ListByOwner returns the owner's records, newest first by CreatedAt.
	ListByOwner(ctx context.Context, ownerID string) ([]*Image, error)

	// UpdateMetadata overwrites description and tags (nil clears a field)
	// and stamps updatedAt. ErrImageNotFound when absent.
	UpdateMetadata(ctx context.Context, id string, description, tags *string, updatedAt time.Time) error

	// Delete removes a record permanently. Returns false when absent.
	Delete(ctx context.Context, id string) (bool, error)
}
