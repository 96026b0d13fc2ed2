package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an index is queried before it is built.
	ErrInvalidState = errors.New("index not built")
	// ErrNotGrounded reports that the best answer shares no vocabulary with
	// the question. It is an outcome, not a fault.
	ErrNotGrounded = errors.New("document does not clearly contain an answer")
	// ErrEmptyInput is returned when there is nothing to index or summarize.
	ErrEmptyInput = errors.New("empty input")
)

// CapabilityError wraps a failure of an external capability such as the
// embedder, term weighter or sentence segmenter.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s capability failed: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// NewCapabilityError wraps err unless it is nil or already a CapabilityError.
func NewCapabilityError(capability string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CapabilityError
	if errors.As(err, &ce) {
		return err
	}
	return &CapabilityError{Capability: capability, Err: err}
}
