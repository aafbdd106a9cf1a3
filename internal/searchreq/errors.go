package searchreq

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates a document that could not be parsed at all.
	ErrFormat = errors.New("malformed document")

	// ErrSchema indicates a document that parsed but does not have the
	// shape of a search request.
	ErrSchema = errors.New("invalid search request")

	// ErrUnknownFacet indicates a query or bool key this decoder does not
	// support, such as "wildcard" or "must_not".
	ErrUnknownFacet = errors.New("unsupported query clause")

	// ErrMixedRange indicates a range mixing numeric and string bounds.
	ErrMixedRange = errors.New("range mixes numeric and date bounds")
)

// DecodeError reports where in a document decoding failed.
type DecodeError struct {
	// Path locates the offending value, e.g. "$.query.bool.must[1]".
	Path string

	// Message is a human-readable description.
	Message string

	// Err is one of the package sentinels.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns the sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func schemaErr(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...), Err: ErrSchema}
}
