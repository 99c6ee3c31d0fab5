package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeSource represents topic/passage lookup errors
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeRender represents graph rendering errors
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeExport represents graph database export errors
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeClassifier represents LLM classifier errors
	ErrorTypeClassifier ErrorType = "classifier"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// typed is implemented by every error in this package
type typed interface {
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType { return e.Type }

// Source Errors

// ErrSourceNoReferences is returned when a topic yields no passage references
type ErrSourceNoReferences struct {
	*BaseError
	Topic string
}

func NewSourceNoReferences(topic string) *ErrSourceNoReferences {
	return &ErrSourceNoReferences{
		BaseError: NewBaseError(ErrorTypeSource, fmt.Sprintf("no passages found for topic: %q", topic), nil),
		Topic:     topic,
	}
}

// ErrSourceFetchFailed describes a failed upstream request. Lookups absorb it and
// only log it; it never reaches the graph builder.
type ErrSourceFetchFailed struct {
	*BaseError
	URL        string
	StatusCode int
}

func NewSourceFetchFailed(url string, statusCode int, err error) *ErrSourceFetchFailed {
	msg := fmt.Sprintf("request failed: %s", url)
	if statusCode != 0 {
		msg = fmt.Sprintf("request failed: %s (status %d)", url, statusCode)
	}
	return &ErrSourceFetchFailed{
		BaseError:  NewBaseError(ErrorTypeSource, msg, err),
		URL:        url,
		StatusCode: statusCode,
	}
}

// ErrSourceMalformed is returned when an upstream body cannot be decoded
type ErrSourceMalformed struct {
	*BaseError
	URL string
}

func NewSourceMalformed(url string, err error) *ErrSourceMalformed {
	return &ErrSourceMalformed{
		BaseError: NewBaseError(ErrorTypeSource, fmt.Sprintf("malformed response: %s", url), err),
		URL:       url,
	}
}

// Render Errors

// ErrRenderFailed is returned when a graph cannot be serialized
type ErrRenderFailed struct {
	*BaseError
	Format string
}

func NewRenderFailed(format string, err error) *ErrRenderFailed {
	return &ErrRenderFailed{
		BaseError: NewBaseError(ErrorTypeRender, fmt.Sprintf("failed to render graph as %s", format), err),
		Format:    format,
	}
}

// ErrRenderUnknownFormat is returned for an unsupported output format
type ErrRenderUnknownFormat struct {
	*BaseError
	Format string
}

func NewRenderUnknownFormat(format string) *ErrRenderUnknownFormat {
	return &ErrRenderUnknownFormat{
		BaseError: NewBaseError(ErrorTypeRender, fmt.Sprintf("unknown format: %s", format), nil),
		Format:    format,
	}
}

// Export Errors

// ErrExportConnectionFailed is returned when the Neo4j connection fails
type ErrExportConnectionFailed struct {
	*BaseError
	URI string
}

func NewExportConnectionFailed(uri string, err error) *ErrExportConnectionFailed {
	return &ErrExportConnectionFailed{
		BaseError: NewBaseError(ErrorTypeExport, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrExportQueryFailed is returned when an export query fails
type ErrExportQueryFailed struct {
	*BaseError
	BuildID string
}

func NewExportQueryFailed(buildID string, err error) *ErrExportQueryFailed {
	return &ErrExportQueryFailed{
		BaseError: NewBaseError(ErrorTypeExport, fmt.Sprintf("export failed for build %s", buildID), err),
		BuildID:   buildID,
	}
}

// Classifier Errors

// ErrClassifierFailed is returned when the LLM classifier cannot produce a label
type ErrClassifierFailed struct {
	*BaseError
	Entity string
	Model  string
}

func NewClassifierFailed(entity, model string, err error) *ErrClassifierFailed {
	return &ErrClassifierFailed{
		BaseError: NewBaseError(ErrorTypeClassifier, fmt.Sprintf("failed to classify %q", entity), err),
		Entity:    entity,
		Model:     model,
	}
}

// Context Errors

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), nil),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType reports whether err, or any error it wraps, carries errType
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.errorType() == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	var fetchErr *ErrSourceFetchFailed
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == 0 || fetchErr.StatusCode >= 500 || fetchErr.StatusCode == 429
	}
	if IsErrorType(err, ErrorTypeExport) {
		return true
	}
	return false
}
