package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
)

// statusFor maps an error category to its HTTP status.
func statusFor(code cerrors.Code) int {
	switch code {
	case cerrors.CodeValidation:
		return http.StatusBadRequest
	case cerrors.CodeNotFound:
		return http.StatusNotFound
	case cerrors.CodeContentExtraction, cerrors.CodeBlockedSource:
		return http.StatusUnprocessableEntity
	case cerrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case cerrors.CodeNetworkError, cerrors.CodeAIError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// suggestionFor returns a recovery hint for the client.
func suggestionFor(code cerrors.Code) string {
	switch code {
	case cerrors.CodeBlockedSource:
		return "Try using a different news source. Check the supported sources list."
	case cerrors.CodeNetworkError:
		return "Check your connection and try again in a moment."
	case cerrors.CodeContentExtraction:
		return "This article's format may not be supported. Try a different article."
	case cerrors.CodeNotFound:
		return "The article may have been removed. Verify the URL is correct."
	case cerrors.CodeRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case cerrors.CodeAIError:
		return "Our AI service is temporarily unavailable. Please try again shortly."
	case cerrors.CodeValidation:
		return "Please check your input and try again."
	default:
		return "Something went wrong on our end. Please try again."
	}
}

type errorBody struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion"`
	Retryable  bool              `json:"retryable"`
	Details    map[string]string `json:"details,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// writeError classifies err and writes the structured error envelope.
func writeError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	code := cerrors.CodeOf(err)
	status := statusFor(code)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", string(code)).Msg("request failed")
	} else {
		logger.Warn().Err(err).Str("code", string(code)).Msg("request rejected")
	}

	writeJSON(w, status, errorResponse{
		Success: false,
		Error: errorBody{
			Code:       string(code),
			Message:    err.Error(),
			Suggestion: suggestionFor(code),
			Retryable:  code.Retryable(),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
