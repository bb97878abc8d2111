package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrAIGeneration.WithError(baseErr)

	assert.Same(t, baseErr, appErr.Err)
	assert.Equal(t, TypeAI, appErr.Type)
	assert.Nil(t, ErrAIGeneration.Err, "sentinel must not be mutated")
	assert.True(t, errors.Is(appErr, ErrAIGeneration))
	assert.True(t, errors.Is(appErr, baseErr))
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrDraftNotFound.WithContext("id", "abc").WithContext("operation", "show draft")

	assert.Equal(t, "abc", appErr.Context["id"])
	assert.Nil(t, ErrDraftNotFound.Context)
	assert.Contains(t, appErr.Error(), "[show draft]")
	assert.Contains(t, appErr.Error(), "STORAGE")
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "Simple error without underlying error",
			err:      ErrGitHubTokenMissing,
			contains: []string{"CONFIGURATION", "GitHub token is missing"},
		},
		{
			name:     "Error with underlying error",
			err:      ErrRenderFailed.WithError(errors.New("font missing")),
			contains: []string{"EXPORT", "failed to render document", "font missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}
}

func ghError(status int, header http.Header, msg string) error {
	if header == nil {
		header = http.Header{}
	}
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status, Header: header},
		Message:  msg,
	}
}

func TestNormalize(t *testing.T) {
	t.Run("no response is a transport error with context", func(t *testing.T) {
		err := Normalize(errors.New("dial tcp: connection refused"), "búsqueda")

		assert.Equal(t, KindTransport, err.Kind)
		assert.Equal(t, 0, err.StatusCode)
		assert.Equal(t, "Error de conexión en búsqueda. Verifica tu conexión a internet.", err.Message)
		assert.Equal(t, "dial tcp: connection refused", err.Details)
	})

	t.Run("401 is an auth error", func(t *testing.T) {
		err := Normalize(ghError(401, nil, "Bad credentials"), "")

		assert.Equal(t, KindAuth, err.Kind)
		assert.Equal(t, 401, err.StatusCode)
		assert.Contains(t, err.Message, "Token no válido")
	})

	t.Run("403 with exhausted quota carries the reset time", func(t *testing.T) {
		reset := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		h := http.Header{}
		h.Set("X-RateLimit-Remaining", "0")
		h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		err := Normalize(ghError(403, h, "API rate limit exceeded"), "")

		assert.Equal(t, KindRateLimit, err.Kind)
		assert.Equal(t, 403, err.StatusCode)
		assert.True(t, reset.Equal(err.ResetAt))
		assert.Contains(t, err.Message, reset.Local().Format("15:04:05"))
		details, ok := err.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, details, "resetTime")
	})

	t.Run("403 from go-github RateLimitError", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-RateLimit-Remaining", "0")
		raw := &github.RateLimitError{Response: &http.Response{StatusCode: 403, Header: h}, Message: "limit"}

		err := Normalize(raw, "")

		assert.Equal(t, KindRateLimit, err.Kind)
	})

	t.Run("403 from the client's local quota check uses the known rate", func(t *testing.T) {
		// Arrange
		reset := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
		raw := &github.RateLimitError{
			Rate: github.Rate{Limit: 5000, Remaining: 0, Reset: github.Timestamp{Time: reset}},
			Response: &http.Response{
				Status:     http.StatusText(http.StatusForbidden),
				StatusCode: http.StatusForbidden,
				Header:     make(http.Header),
			},
			Message: "API rate limit of 5000 still exceeded until " + reset.String() + ", not making remote request.",
		}

		// Act
		err := Normalize(fmt.Errorf("listing: %w", raw), "usuario")

		// Assert
		assert.Equal(t, KindRateLimit, err.Kind)
		assert.Equal(t, http.StatusForbidden, err.StatusCode)
		assert.True(t, reset.Equal(err.ResetAt))
		assert.Contains(t, err.Message, reset.Local().Format("15:04:05"))
	})

	t.Run("403 otherwise is insufficient permissions", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-RateLimit-Remaining", "42")

		err := Normalize(ghError(403, h, "Forbidden"), "")

		assert.Equal(t, KindForbidden, err.Kind)
		assert.Contains(t, err.Message, "Permisos insuficientes")
	})

	t.Run("404 includes context", func(t *testing.T) {
		err := Normalize(ghError(404, nil, "Not Found"), "repositorios")

		assert.Equal(t, KindNotFound, err.Kind)
		assert.Equal(t, "Recurso no encontrado en repositorios. Verifica que el repositorio o PR exista.", err.Message)
	})

	t.Run("422 includes the server message", func(t *testing.T) {
		err := Normalize(ghError(422, nil, "Validation Failed"), "búsqueda")

		assert.Equal(t, KindInvalidParams, err.Kind)
		assert.Equal(t, "Parámetros inválidos en búsqueda. Validation Failed", err.Message)
	})

	for _, status := range []int{500, 502, 503} {
		t.Run(fmt.Sprintf("%d is upstream unavailable", status), func(t *testing.T) {
			err := Normalize(ghError(status, nil, "boom"), "")

			assert.Equal(t, KindUpstream, err.Kind)
			assert.Equal(t, status, err.StatusCode)
			assert.True(t, err.Retryable())
		})
	}

	t.Run("other status prefers the server message", func(t *testing.T) {
		err := Normalize(ghError(409, nil, "Git Repository is empty."), "")

		assert.Equal(t, KindUnknown, err.Kind)
		assert.Equal(t, "Git Repository is empty.", err.Message)
	})

	t.Run("other status without message is generic", func(t *testing.T) {
		err := Normalize(&StatusError{StatusCode: 418}, "perfil")

		assert.Equal(t, "Error desconocido (418) en perfil", err.Message)
	})

	t.Run("already normalized errors pass through", func(t *testing.T) {
		first := Normalize(ghError(404, nil, ""), "a")

		again := Normalize(fmt.Errorf("wrapped: %w", first), "b")

		assert.Same(t, first, again)
	})
}

func TestWrap(t *testing.T) {
	t.Run("validation errors are not normalized", func(t *testing.T) {
		vErr := NewValidationError(KindFormat, "repository", "Formato de repositorio inválido. Use: owner/repo")

		err := Wrap(vErr, "búsqueda")

		assert.Same(t, vErr, err)
		assert.True(t, errors.Is(err, ErrFormat))
		assert.False(t, errors.Is(err, ErrRange))
	})

	t.Run("raw errors become APIError", func(t *testing.T) {
		err := Wrap(ghError(401, nil, ""), "búsqueda")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, IsAuth(err))
		assert.False(t, apiErr.Retryable())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "x"))
	})
}
