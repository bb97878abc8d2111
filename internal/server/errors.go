package server

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
)

// errorResponse is the wire shape of every failed request.
type errorResponse struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details"`
}

// writeError renders err as an errorResponse. GitHub failures keep their
// upstream status, a failure without a response maps to 502.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Message: err.Error(), StatusCode: http.StatusInternalServerError}

	var vErr *domainErrors.ValidationError
	var apiErr *domainErrors.APIError
	var appErr *domainErrors.AppError
	switch {
	case errors.As(err, &vErr):
		resp.StatusCode = http.StatusBadRequest
		resp.Message = vErr.Message
		resp.Details = map[string]string{"kind": string(vErr.Kind), "field": vErr.Field}
	case errors.As(err, &apiErr):
		resp.Message = apiErr.Message
		resp.StatusCode = apiErr.StatusCode
		resp.Details = apiErr.Details
		if resp.StatusCode == 0 {
			resp.StatusCode = http.StatusBadGateway
		}
	case errors.As(err, &appErr):
		resp.Message = appErr.Message
		resp.StatusCode = appErrorStatus(err, appErr)
		if appErr.Suggestion != "" {
			resp.Details = map[string]string{"suggestion": appErr.Suggestion}
		}
	}

	writeJSON(w, resp.StatusCode, resp)
}

func appErrorStatus(err error, appErr *domainErrors.AppError) int {
	switch {
	case errors.Is(err, domainErrors.ErrGitHubTokenMissing), errors.Is(err, domainErrors.ErrGitHubTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrUnsupportedFormat), errors.Is(err, domainErrors.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrGeminiQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domainErrors.ErrAPIKeyMissing):
		return http.StatusServiceUnavailable
	}
	if appErr.Type == domainErrors.TypeAI {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return domainErrors.NewValidationError(domainErrors.KindFormat, "body", "Cuerpo JSON inválido: "+err.Error())
	}
	return nil
}
