package service

import "errors"

var (
	ErrUnauthenticated    = errors.New("user is not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrNoContentGenerated = errors.New("no content generated")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrNotPending         = errors.New("post is no longer pending")
)

// UploadError means the source file never reached storage.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "Upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// InsertError is a failed row insert. Prefix distinguishes the original
// content insert from the repurposed and scheduled ones.
type InsertError struct {
	Prefix string
	Err    error
}

const (
	originalInsertPrefix = "Database insert failed"
	insertPrefix         = "Insert failed"
)

func (e *InsertError) Error() string {
	return e.Prefix + ": " + e.Err.Error()
}

func (e *InsertError) Unwrap() error {
	return e.Err
}
