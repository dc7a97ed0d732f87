// Package client is the upload side of a review: it validates the chosen
// file, posts it to the review endpoint and tracks the form state.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"alfredoptarigan/resume-reviewer/internal/models"
)

const (
	MsgNotPDF        = "Please upload a PDF file"
	MsgNoFile        = "Please upload a resume file"
	MsgRequestFailed = "Failed to get feedback. Please try again."
)

var ErrSubmitInFlight = errors.New("a review request is already in flight")

type State string

const (
	StateIdle          State = "idle"
	StateSubmitting    State = "submitting"
	StateShowingResult State = "showing-result"
)

// File is a resume picked by the user, held in memory until submission.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// FileFromPath reads a file from disk and declares its media type from the
// extension, the way a browser file input does.
func FileFromPath(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	contentType := "application/octet-stream"
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		contentType = models.ContentTypePDF
	}

	return &File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Form mirrors the upload form: one file, one request at a time.
type Form struct {
	http     *resty.Client
	endpoint string

	mu       sync.Mutex
	file     *File
	feedback string
	errMsg   string
	state    State
}

// NewForm posts reviews to endpoint, the full URL of the review route.
func NewForm(endpoint string, timeout time.Duration) *Form {
	return &Form{
		http:     resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		state:    StateIdle,
	}
}

// Select takes a file from the picker. The picker already filters to .pdf,
// so no type check happens here.
func (f *Form) Select(file *File) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if file == nil {
		return
	}
	f.file = file
	f.errMsg = ""
}

// Drop takes a dragged file and rejects anything not declared as a PDF.
func (f *Form) Drop(file *File) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if file == nil {
		return false
	}
	if file.ContentType != models.ContentTypePDF {
		f.errMsg = MsgNotPDF
		return false
	}
	f.file = file
	f.errMsg = ""
	return true
}

// RemoveFile clears the selection without touching feedback.
func (f *Form) RemoveFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = nil
}

func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file != nil && f.state != StateSubmitting
}

// Submit posts the selected file and returns the feedback. On failure the
// form goes back to idle with an inline error and can be submitted again.
func (f *Form) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	if f.file == nil {
		f.errMsg = MsgNoFile
		f.mu.Unlock()
		return "", errors.New(MsgNoFile)
	}

	file := f.file
	f.state = StateSubmitting
	f.errMsg = ""
	f.feedback = ""
	f.mu.Unlock()

	feedback, err := f.post(ctx, file)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = StateIdle
		f.errMsg = err.Error()
		return "", err
	}

	f.state = StateShowingResult
	f.feedback = feedback
	return feedback, nil
}

func (f *Form) post(ctx context.Context, file *File) (string, error) {
	var result models.ReviewResponse
	var failure models.ErrorResponse

	resp, err := f.http.R().
		SetContext(ctx).
		SetMultipartField("resume", file.Name, file.ContentType, bytes.NewReader(file.Data)).
		SetResult(&result).
		SetError(&failure).
		Post(f.endpoint)
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", errors.New(MsgRequestFailed)
	}

	return result.Feedback, nil
}

// Reset returns the form to idle with no file, feedback or error.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.file = nil
	f.feedback = ""
	f.errMsg = ""
	f.state = StateIdle
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Feedback() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedback
}

// Error is the inline error message, empty when there is none.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Form) File() *File {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file
}
