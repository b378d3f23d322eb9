package ai

import (
	"errors"
)

var (
	ErrBusy           = errors.New("a request is already in progress")
	ErrClosed         = errors.New("panel closed")
	ErrPromptRequired = errors.New("Prompt is required")
	ErrInvalidParams  = errors.New("invalid generation parameters")
	ErrStreamFinished = errors.New("stream already finished")
	ErrUnavailable    = errors.New("generation service not configured")
)

// GenerationError is how every collaborator failure surfaces. Detail is the
// human-readable part shown in the requesting panel.
type GenerationError struct {
	Op     string
	Detail string
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Detail
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Fail wraps err as a GenerationError for op. Existing GenerationErrors pass
// through untouched.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Op: op, Detail: err.Error(), Err: err}
}

// Detail returns the display text for err.
func Detail(err error) string {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
