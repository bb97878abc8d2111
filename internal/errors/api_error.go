package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v80/github"
)

// APIKind classifies a failed call to GitHub.
type APIKind string

const (
	KindTransport     APIKind = "transport"
	KindAuth          APIKind = "auth"
	KindRateLimit     APIKind = "rate_limit"
	KindForbidden     APIKind = "forbidden"
	KindNotFound      APIKind = "not_found"
	KindInvalidParams APIKind = "invalid_params"
	KindUpstream      APIKind = "upstream_unavailable"
	KindUnknown       APIKind = "unknown"
)

// APIError is a normalized GitHub failure. StatusCode 0 means no response
// was received.
type APIError struct {
	Kind       APIKind     `json:"kind"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details"`
	Operation  string      `json:"-"`
	ResetAt    time.Time   `json:"-"`
	Err        error       `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure may go away on its own.
func (e *APIError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false
	}
	return true
}

// IsAuth reports whether err is a 401 or a permission-class 403.
func IsAuth(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a normalized 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Normalize converts a raw GitHub client error into an APIError. An error
// that is already an APIError is returned as is. operation names the call
// site and is included in some messages.
func Normalize(err error, operation string) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	resp, serverMsg, data := responseOf(err)
	if resp == nil {
		return &APIError{
			Kind:       KindTransport,
			Message:    fmt.Sprintf("Error de conexión%s. Verifica tu conexión a internet.", in(operation)),
			StatusCode: 0,
			Details:    err.Error(),
			Operation:  operation,
			Err:        err,
		}
	}

	status := resp.StatusCode
	out := &APIError{StatusCode: status, Details: data, Operation: operation, Err: err}

	switch {
	case status == http.StatusUnauthorized:
		out.Kind = KindAuth
		out.Message = "Token no válido o expirado. Por favor vuelve a iniciar sesión."
	case status == http.StatusForbidden && rateLimited(err, resp):
		reset := resetOf(err, resp)
		out.Kind = KindRateLimit
		out.ResetAt = reset
		out.Message = fmt.Sprintf("Límite de API de GitHub alcanzado. Se restablecerá a las %s.", reset.Local().Format("15:04:05"))
		out.Details = map[string]interface{}{"resetTime": reset}
	case status == http.StatusForbidden:
		out.Kind = KindForbidden
		out.Message = "Permisos insuficientes. Verifica que tu token tenga los scopes necesarios."
	case status == http.StatusNotFound:
		out.Kind = KindNotFound
		out.Message = fmt.Sprintf("Recurso no encontrado%s. Verifica que el repositorio o PR exista.", in(operation))
	case status == http.StatusUnprocessableEntity:
		out.Kind = KindInvalidParams
		out.Message = fmt.Sprintf("Parámetros inválidos%s. %s", in(operation), serverMsg)
	case status == http.StatusInternalServerError || status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		out.Kind = KindUpstream
		out.Message = "Error del servidor de GitHub. Por favor intenta más tarde."
	default:
		out.Kind = KindUnknown
		out.Message = serverMsg
		if out.Message == "" {
			out.Message = fmt.Sprintf("Error desconocido (%d)%s", status, in(operation))
		}
	}
	return out
}

// Wrap normalizes err unless it is a local error that never reached the
// network: validation failures and application errors pass through.
func Wrap(err error, operation string) error {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Normalize(err, operation)
}

func in(operation string) string {
	if operation == "" {
		return ""
	}
	return " en " + operation
}

// rateLimited reports an exhausted quota. go-github fails calls locally while
// its last known rate is exhausted, with a synthetic 403 that has no headers,
// so the rate it carries counts as well.
func rateLimited(err error, resp *http.Response) bool {
	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	var rateErr *github.RateLimitError
	return errors.As(err, &rateErr) && rateErr.Rate.Remaining == 0 && !rateErr.Rate.Reset.IsZero()
}

func resetOf(err error, resp *http.Response) time.Time {
	if reset := parseReset(resp.Header.Get("X-RateLimit-Reset")); !reset.IsZero() {
		return reset
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Rate.Reset.Time
	}
	return time.Time{}
}

func parseReset(v string) time.Time {
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

// responseOf extracts the HTTP response, server message and payload from
// the error types returned by go-github.
func responseOf(err error) (*http.Response, string, interface{}) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response, rateErr.Message, map[string]interface{}{"message": rateErr.Message}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response, abuseErr.Message, map[string]interface{}{"message": abuseErr.Message}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		data := map[string]interface{}{"message": respErr.Message}
		if respErr.DocumentationURL != "" {
			data["documentation_url"] = respErr.DocumentationURL
		}
		if len(respErr.Errors) > 0 {
			data["errors"] = respErr.Errors
		}
		return respErr.Response, respErr.Message, data
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Response(), statusErr.Message, map[string]interface{}{"message": statusErr.Message}
	}

	return nil, "", nil
}

// StatusError is an HTTP failure from a source other than go-github.
type StatusError struct {
	StatusCode int
	Header     http.Header
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Response() *http.Response {
	h := e.Header
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{StatusCode: e.StatusCode, Header: h}
}
