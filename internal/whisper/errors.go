package whisper

import (
	"errors"
	"fmt"
)

var (
	// ErrInitFailed is returned when the engine could not build a context
	// from the model bytes it was given.
	ErrInitFailed = errors.New("whisper: failed to initialize context")
	// ErrContextFreed is returned by every Context method after Free.
	ErrContextFreed = errors.New("whisper: context freed")
	// ErrSegmentOutOfRange is returned for a segment index outside [0, count).
	ErrSegmentOutOfRange = errors.New("whisper: segment index out of range")
)

// FullError carries the non-zero status returned by whisper_full.
type FullError struct {
	Code int
}

func (e *FullError) Error() string {
	return fmt.Sprintf("whisper: failed to run the model (code %d)", e.Code)
}
