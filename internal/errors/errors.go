package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeAI            ErrorType = "AI"
	TypeVCS           ErrorType = "VCS"
	TypeValidation    ErrorType = "VALIDATION"
	TypeStorage       ErrorType = "STORAGE"
	TypeExport        ErrorType = "EXPORT"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	if op, ok := e.Context["operation"].(string); ok && op != "" {
		msg += " [" + op + "]"
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches errors derived from the same sentinel, so errors.Is keeps
// working after WithError/WithContext copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

func (e *AppError) clone() *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.Err = err
	return c
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	c := e.clone()
	c.Context = ctx
	return c
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	c := e.clone()
	c.Suggestion = suggestion
	return c
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrGitHubTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
				WithSuggestion("Run: devrecap config set github_token <token>\nor export GITHUB_TOKEN")

	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "Gemini API key is missing", nil).
				WithSuggestion("Get a key at https://aistudio.google.com/app/apikey\nThen run: devrecap config set gemini_api_key <key>")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "configuration is not valid", nil).
				WithSuggestion("Review it with: devrecap config show")

	ErrUnknownConfigKey = NewAppError(TypeConfiguration, "unknown configuration key", nil).
				WithSuggestion("Run: devrecap config show to list the available keys")
)

// GitHub errors
var (
	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubNoLogin = NewAppError(TypeVCS, "authenticated user has no login", nil)
)

// AI errors
var (
	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "AI returned an empty report", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrGeminiAPIKeyInvalid = NewAppError(TypeAI, "Gemini API key is invalid", nil).
				WithSuggestion("Get a valid API key at: https://aistudio.google.com/app/apikey")

	ErrGeminiQuotaExceeded = NewAppError(TypeAI, "Gemini API quota exceeded", nil).
				WithSuggestion("Wait a few minutes and try again")

	ErrAIModelNotFound = NewAppError(TypeAI, "AI model is not available", nil).
				WithSuggestion("Set another model with: devrecap config set gemini_model <model>")
)

// Storage and export errors
var (
	ErrDraftNotFound = NewAppError(TypeStorage, "draft not found", nil).
				WithSuggestion("List saved drafts with: devrecap drafts list")

	ErrStoreRead  = NewAppError(TypeStorage, "failed to read local state", nil)
	ErrStoreWrite = NewAppError(TypeStorage, "failed to write local state", nil)

	ErrUnsupportedFormat = NewAppError(TypeExport, "unsupported export format", nil).
				WithSuggestion("Use --format html or --format pdf")

	ErrRenderFailed = NewAppError(TypeExport, "failed to render document", nil)
)
