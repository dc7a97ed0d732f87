package services

import "errors"

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNotPDF          = errors.New("file is not a PDF")
	ErrExtraction      = errors.New("failed to extract text from PDF")
	ErrProvider        = errors.New("review provider failed")
	ErrProviderTimeout = errors.New("review provider timed out")
	ErrBusy            = errors.New("review queue is full")
	ErrPoolStopped     = errors.New("review pool stopped")
)
