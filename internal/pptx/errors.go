package pptx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPackage indicates the input is not a readable presentation package.
	ErrInvalidPackage = errors.New("pptx: invalid presentation package")
	// ErrPartNotFound indicates a referenced package part is missing.
	ErrPartNotFound = errors.New("pptx: part not found")
	// ErrSlideIndex indicates a slide index outside the deck.
	ErrSlideIndex = errors.New("pptx: slide index out of range")
	// ErrNoShapeProperties indicates a shape without spPr, which cannot carry a fill.
	ErrNoShapeProperties = errors.New("pptx: shape has no shape properties")
)

// PartError reports a failure while reading or writing a single package part.
type PartError struct {
	Part string
	Op   string // "read", "parse", "write"
	Err  error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("pptx: %s %s: %v", e.Op, e.Part, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}
