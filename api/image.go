package api

import "time"

// ImageMetadata is the external representation of a stored image, without
// its binary payload. Description and Tags are omitted entirely when unset
// so clients can tell absent from empty.
type ImageMetadata struct {
	ID          string     `json:"id"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Description *string    `json:"description,omitempty"`
	Tags        *string    `json:"tags,omitempty"`
}

// ImageUpdateRequest carries a metadata update. A null (or missing) field
// clears the stored value; an empty string stores an empty string.
type ImageUpdateRequest struct {
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Tags        *string `json:"tags" binding:"omitempty,max=500"`
}
