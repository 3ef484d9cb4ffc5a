package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Unwrap = errors.Unwrap
)

type ErrorCategory string

const (
	CategoryFormat    ErrorCategory = "FORMAT"    // Share link fails pattern validation
	CategoryTransport ErrorCategory = "TRANSPORT" // Content fetch returned a non-success status
	CategoryParse     ErrorCategory = "PARSE"     // Staged content cannot be decoded
	CategoryMapping   ErrorCategory = "MAPPING"   // Result shape does not match the requested mapping
	CategoryIO        ErrorCategory = "IO"        // Staging file system issues
)

// FeedError represents an error raised while resolving, fetching or parsing
// a share-link feed.
type FeedError struct {
	Err        error         // Original error
	Category   ErrorCategory // General category
	Resource   string        // What resource was being accessed
	StatusCode int           // HTTP status code, when the transport produced one
	Timestamp  time.Time     // When the error occurred
}

// Error implements the error interface.
func (e *FeedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] %s (status: %d): %v", e.Category, e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Resource, e.Err)
}

// Unwrap provides the underlying cause for error unwrapping (compatible with errors.As).
func (e *FeedError) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	ErrInvalidShareLink = New("invalid share link")
	ErrShapeMismatch    = New("parsed shape does not match requested mapping")
)

// NewFormatError creates an error for a share link that fails validation.
func NewFormatError(err error, link string) *FeedError {
	return &FeedError{
		Err:       err,
		Category:  CategoryFormat,
		Resource:  link,
		Timestamp: time.Now(),
	}
}

// NewTransportError creates an error for a fetch that returned a non-success status.
func NewTransportError(err error, resource string, statusCode int) *FeedError {
	return &FeedError{
		Err:        err,
		Category:   CategoryTransport,
		Resource:   resource,
		StatusCode: statusCode,
		Timestamp:  time.Now(),
	}
}

// NewParseError creates an error for staged content that cannot be parsed.
func NewParseError(err error, resource string) *FeedError {
	return &FeedError{
		Err:       err,
		Category:  CategoryParse,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

// NewTypeMismatchError creates an error for a mapping applied to an
// incompatible result shape.
func NewTypeMismatchError(err error, resource string) *FeedError {
	return &FeedError{
		Err:       err,
		Category:  CategoryMapping,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

// NewIOError creates a staging I/O related error.
func NewIOError(err error, resource string) *FeedError {
	return &FeedError{
		Err:       err,
		Category:  CategoryIO,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

func isCategory(err error, category ErrorCategory) bool {
	var feedErr *FeedError
	return As(err, &feedErr) && feedErr.Category == category
}

// IsFormatError reports whether the error came from link validation.
func IsFormatError(err error) bool {
	return isCategory(err, CategoryFormat)
}

// IsTransportError reports whether the error came from the content fetch.
func IsTransportError(err error) bool {
	return isCategory(err, CategoryTransport)
}

// IsParseError reports whether the error came from decoding staged content.
func IsParseError(err error) bool {
	return isCategory(err, CategoryParse)
}

// IsTypeMismatchError reports whether the error came from the mapping stage.
func IsTypeMismatchError(err error) bool {
	return isCategory(err, CategoryMapping)
}

// StatusCode extracts the HTTP status carried by a transport error, or 0.
func StatusCode(err error) int {
	var feedErr *FeedError
	if As(err, &feedErr) {
		return feedErr.StatusCode
	}
	return 0
}
