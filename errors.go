package strtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the input batch is malformed, e.g. the
	// coordinate arrays differ in length.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidGeometry is returned for NaN or infinite coordinates.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidConfig is returned when Config fails validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// GeometryError reports the first item of a batch with a malformed box.
type GeometryError struct {
	// Position of the item in the batch.
	Position int
	Box      Box
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: item %d has box (%g %g, %g %g)", ErrInvalidGeometry, e.Position, e.Box.MinX, e.Box.MinY, e.Box.MaxX, e.Box.MaxY)
}

func (e *GeometryError) Unwrap() error { return ErrInvalidGeometry }
