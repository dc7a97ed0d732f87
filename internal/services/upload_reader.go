package services

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"alfredoptarigan/resume-reviewer/internal/models"
)

// UploadReader turns a multipart file into an in-memory Upload, rejecting
// empty, oversized and non-PDF content before any extraction work starts.
type UploadReader interface {
	Read(file *multipart.FileHeader) (*models.Upload, error)
}

type uploadReader struct {
	maxFileSize int64
}

func NewUploadReader(maxFileSize int64) UploadReader {
	return &uploadReader{
		maxFileSize: maxFileSize,
	}
}

func (u *uploadReader) Read(file *multipart.FileHeader) (*models.Upload, error) {
	if file == nil || file.Size == 0 {
		return nil, ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, file.Size, u.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Read one byte past the limit so a lying Size header is still caught.
	data, err := io.ReadAll(io.LimitReader(src, u.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(data)) > u.maxFileSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, u.maxFileSize)
	}

	if detected := mimetype.Detect(data); !detected.Is(models.ContentTypePDF) {
		return nil, fmt.Errorf("%w: detected %s", ErrNotPDF, detected.String())
	}

	return &models.Upload{
		ID:          uuid.New(),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
