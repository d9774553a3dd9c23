package document

import (
	"errors"
	"fmt"
)

// File errors
var (
	// ErrNotFound indicates that the file to open does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNotReadable indicates that the file exists but cannot be read.
	ErrNotReadable = errors.New("file not readable")

	// ErrIoFailure indicates that a read, write or swap failed part way.
	ErrIoFailure = errors.New("i/o failure")
)

// Document state errors
var (
	// ErrClosed indicates that the document has been closed and its temp files removed.
	ErrClosed = errors.New("document closed")

	// ErrOffsetOutOfRange indicates that an edit targets a byte outside the document.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

type FileErrorKind int

const (
	NotFound FileErrorKind = iota
	NotReadable
	IoFailure
)

func (k FileErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotReadable:
		return "not readable"
	default:
		return "i/o failure"
	}
}

func (k FileErrorKind) sentinel() error {
	switch k {
	case NotFound:
		return ErrNotFound
	case NotReadable:
		return ErrNotReadable
	default:
		return ErrIoFailure
	}
}

// FileError is returned by Open, window loads and SaveTo. It matches both its
// kind sentinel and the underlying OS error under errors.Is.
type FileError struct {
	Kind FileErrorKind
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{e.Kind.sentinel(), e.Err}
}

// EditError is returned when a splice could not be applied. The document is
// left pointing at its previous backing file.
type EditError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

func ioFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrIoFailure, err)
}
