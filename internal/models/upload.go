package models

import (
	"github.com/google/uuid"
)

const ContentTypePDF = "application/pdf"

// Upload is the single in-memory resume buffer handled by one review request.
type Upload struct {
	ID          uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}
