package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"imagevault/api"
	"imagevault/images/application"
	"imagevault/images/domain"
	"imagevault/internal/middleware"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ImageHandler exposes the image operations over HTTP. Every operation
// resolves the caller's identity first and checks ownership before touching
// a specific record; create and list scope by the caller directly.
type ImageHandler struct {
	service *application.ImageService
}

func NewImageHandler(service *application.ImageService) *ImageHandler {
	return &ImageHandler{
		service: service,
	}
}

// Upload stores a new image from a multipart form: a required "file" part
// plus optional "description" and "tags" fields.
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	// Cheap checks before buffering the payload; the service re-validates.
	if fileHeader.Size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}
	if fileHeader.Size > domain.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file exceeds maximum size of %d MB", domain.MaxFileSize/(1024*1024))})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !domain.IsSupportedContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported content type: %s", contentType)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternal(c, err, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondInternal(c, err, "Failed to read uploaded file")
		return
	}

	if detected := mimetype.Detect(data); !strings.EqualFold(detected.String(), contentType) {
		log.Debug().
			Str("declared", contentType).
			Str("detected", detected.String()).
			Msg("Uploaded payload does not match its declared content type")
	}

	upload := application.ImageUpload{
		FileName:    filepath.Base(fileHeader.Filename),
		ContentType: contentType,
		Data:        data,
		Size:        int64(len(data)),
		OwnerID:     userID,
		Description: optionalFormField(c, "description"),
		Tags:        optionalFormField(c, "tags"),
	}

	img, err := h.service.Save(c.Request.Context(), upload)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			log.Warn().Str("rule", vErr.Rule).Msg("Image upload validation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			return
		}
		respondInternal(c, err, "Failed to save image")
		return
	}

	c.JSON(http.StatusCreated, toMetadata(img))
}

// GetMetadata returns a single image's metadata.
func (h *ImageHandler) GetMetadata(c *gin.Context) {
	img, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toMetadata(img))
}

// Download streams the raw image bytes with the stored content type.
func (h *ImageHandler) Download(c *gin.Context) {
	img, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", img.FileName))
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// ListMine returns all of the caller's images, newest first.
func (h *ImageHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	images, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err, "Failed to list images")
		return
	}

	metadata := make([]*api.ImageMetadata, 0, len(images))
	for _, img := range images {
		metadata = append(metadata, toMetadata(img))
	}

	c.JSON(http.StatusOK, metadata)
}

// UpdateMetadata overwrites an image's description and tags.
func (h *ImageHandler) UpdateMetadata(c *gin.Context) {
	img, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	req := &api.ImageUpdateRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateMetadata(c.Request.Context(), img.ID, req.Description, req.Tags)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		case errors.Is(err, domain.ErrImageNotFound):
			respondNotFound(c, img.ID)
		default:
			respondInternal(c, err, "Failed to update image metadata")
		}
		return
	}

	c.JSON(http.StatusOK, toMetadata(updated))
}

// Delete removes an image permanently.
func (h *ImageHandler) Delete(c *gin.Context) {
	img, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), img.ID)
	if err != nil {
		respondInternal(c, err, "Failed to delete image")
		return
	}
	if !deleted {
		respondNotFound(c, img.ID)
		return
	}

	c.Status(http.StatusNoContent)
}

// fetchOwned resolves the caller, loads the target image, and enforces the
// ownership guard. On failure it writes the response and returns ok=false.
func (h *ImageHandler) fetchOwned(c *gin.Context) (*domain.Image, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondUnauthenticated(c)
		return nil, false
	}

	imageID := c.Param("imageId")

	img, err := h.service.GetByID(c.Request.Context(), imageID)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			respondNotFound(c, imageID)
		} else {
			respondInternal(c, err, "Failed to fetch image")
		}
		return nil, false
	}

	if !img.OwnedBy(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this image"})
		return nil, false
	}

	return img, true
}

// optionalFormField distinguishes an absent form field (nil) from one posted
// as an empty string.
func optionalFormField(c *gin.Context, name string) *string {
	value, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	return &value
}

func toMetadata(img *domain.Image) *api.ImageMetadata {
	return &api.ImageMetadata{
		ID:          img.ID,
		FileName:    img.FileName,
		ContentType: img.ContentType,
		Size:        img.Size,
		CreatedAt:   img.CreatedAt,
		UpdatedAt:   img.UpdatedAt,
		Description: img.Description,
		Tags:        img.Tags,
	}
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

func respondNotFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("image with ID %s not found", id)})
}

func respondInternal(c *gin.Context, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
