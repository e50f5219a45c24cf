package result

import (
	"fmt"
	"sort"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors matched with errors.Is against the typed scenario errors.
var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = constError("scenario validation failed")

	// ErrModel matches any *ModelError.
	ErrModel = constError("model error")
)

// Issue is a single validation finding for one field path.
type Issue struct {
	// Path is the slash-separated location of the offending value, e.g. "/floors/0/area".
	Path string `json:"path"`

	// Message describes what is wrong with the value.
	Message string `json:"message"`
}

// ValidationError reports that a scenario record does not match the required shape.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

// NewValidationError builds a ValidationError with issues sorted by path.
func NewValidationError(issues ...Issue) *ValidationError {
	sorted := append([]Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return &ValidationError{Issues: sorted}
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return string(ErrValidation)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Paths returns the offending field paths in order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		paths = append(paths, issue.Path)
	}
	return paths
}

// ModelError reports structurally valid input that violates a domain invariant.
type ModelError struct {
	// Message is the human-readable description.
	Message string `json:"message"`

	// Context carries structured diagnostics such as the offending field names.
	Context map[string]any `json:"context,omitempty"`
}

// NewModelError builds a ModelError. Context may be nil.
func NewModelError(message string, context map[string]any) *ModelError {
	return &ModelError{Message: message, Context: context}
}

// FieldError builds a ModelError whose context lists the offending fields.
func FieldError(message string, fields ...string) *ModelError {
	return &ModelError{
		Message: message,
		Context: map[string]any{"fields": append([]string(nil), fields...)},
	}
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s", ErrModel, e.Message)
}

// Is reports whether target is ErrModel.
func (e *ModelError) Is(target error) bool {
	return target == ErrModel
}

// Fields returns the field names recorded in the context, if any.
func (e *ModelError) Fields() []string {
	if e.Context == nil {
		return nil
	}
	fields, _ := e.Context["fields"].([]string)
	return fields
}
