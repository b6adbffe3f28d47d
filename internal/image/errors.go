package image

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad is matched by every failure to read or decode the source image.
	ErrImageLoad = errors.New("image load error")

	// ErrInvalidWidth is matched when the requested target width is not a positive integer.
	ErrInvalidWidth = errors.New("invalid target width")
)

// LoadError describes an unreadable or undecodable image file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrImageLoad, e.Path, e.Err)
}

// Unwrap exposes both ErrImageLoad and the underlying cause to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	return []error{ErrImageLoad, e.Err}
}

// WidthError reports the rejected width value as the user supplied it.
type WidthError struct {
	Value string
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("%v %q: must be a positive integer", ErrInvalidWidth, e.Value)
}

func (e *WidthError) Unwrap() error {
	return ErrInvalidWidth
}
