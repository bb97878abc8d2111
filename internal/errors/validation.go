package errors

// ValidationKind classifies a rejected local input.
type ValidationKind string

const (
	KindInvalidDate   ValidationKind = "invalid_date"
	KindOrdering      ValidationKind = "ordering"
	KindFutureDate    ValidationKind = "future_date"
	KindInvalidInput  ValidationKind = "invalid_input"
	KindFormat        ValidationKind = "format"
	KindEmptySegment  ValidationKind = "empty_segment"
	KindRange         ValidationKind = "range"
	KindMissingFields ValidationKind = "missing_fields"
	KindEmptyResult   ValidationKind = "empty_result"
	KindNoResults     ValidationKind = "no_results"
)

// ValidationError is raised before any network call when an input is
// malformed, or after a search when nothing was found.
type ValidationError struct {
	Kind    ValidationKind `json:"kind"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError of the same kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

func NewValidationError(kind ValidationKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidDate   = &ValidationError{Kind: KindInvalidDate}
	ErrOrdering      = &ValidationError{Kind: KindOrdering}
	ErrFutureDate    = &ValidationError{Kind: KindFutureDate}
	ErrInvalidInput  = &ValidationError{Kind: KindInvalidInput}
	ErrFormat        = &ValidationError{Kind: KindFormat}
	ErrEmptySegment  = &ValidationError{Kind: KindEmptySegment}
	ErrRange         = &ValidationError{Kind: KindRange}
	ErrMissingFields = &ValidationError{Kind: KindMissingFields}
	ErrEmptyResult   = &ValidationError{Kind: KindEmptyResult}
	ErrNoResults     = &ValidationError{Kind: KindNoResults}
)
