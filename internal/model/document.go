package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentType is reference data describing a category of documents
type DocumentType struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Document represents a managed document record
type Document struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	TypeID      int       `json:"type"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	OwnerID     int       `json:"owner_id"`
	StoredPath  *string   `json:"path,omitempty"` // Pointer for optional field
	CreatedAt   time.Time `json:"creation_date"`
}

// CreateDocumentRequest carries the multipart form fields of /document/add
type CreateDocumentRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"descript" binding:"required"`
	TypeID      int    `form:"type" binding:"required"`
}

// Validate applies content rules beyond gin's form binding
func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.TypeID, validation.Required, validation.Min(1)),
	)
}

// UpdateDocumentRequest is a partial payload; only non-nil fields are applied
type UpdateDocumentRequest struct {
	Title       *string `json:"title,omitempty"`
	TypeID      *int    `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddDocumentTypeRequest creates a new document category
type AddDocumentTypeRequest struct {
	Title string `form:"type_title" binding:"required"`
}

// Validate bounds the category title
func (r AddDocumentTypeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 100)),
	)
}
