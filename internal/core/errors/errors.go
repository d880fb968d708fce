// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Typed errors (FetchError, ...): Use when the caller needs structured fields
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category. The transport layer maps codes
// to status codes and recovery hints; the core only assigns them.
type Code string

// Error categories.
const (
	CodeValidation        Code = "VALIDATION"
	CodeNetworkError      Code = "NETWORK_ERROR"
	CodeContentExtraction Code = "CONTENT_EXTRACTION"
	CodeBlockedSource     Code = "BLOCKED_SOURCE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeAIError           Code = "AI_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Retryable reports whether a request hitting this category may succeed if
// simply retried.
func (c Code) Retryable() bool {
	switch c {
	case CodeNetworkError, CodeRateLimited, CodeAIError:
		return true
	default:
		return false
	}
}

// Validation errors.
var (
	// ErrTooFewArticles indicates fewer than 2 URLs were supplied for comparison.
	ErrTooFewArticles = errors.New("need at least 2 articles to compare")

	// ErrTooManyArticles indicates more than 5 URLs were supplied for comparison.
	ErrTooManyArticles = errors.New("maximum 5 articles for comparison")

	// ErrTooFewAnalyses indicates the successful analysis count dropped below the minimum.
	ErrTooFewAnalyses = errors.New("need at least 2 successful analyses to compare")

	// ErrMissingSearchCriteria indicates no url, keywords, or topic was supplied.
	ErrMissingSearchCriteria = errors.New("must provide url, keywords, or topic")
)

// Cache errors.
var (
	// ErrCacheMiss indicates a cache entry was not found or has expired.
	ErrCacheMiss = errors.New("cache entry not found")
)

// Provider errors.
var (
	// ErrEmptyResponse indicates an empty response from an AI backend.
	ErrEmptyResponse = errors.New("empty response")

	// ErrProviderUnavailable indicates a backend is not configured or disabled.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ValidationError marks bad caller input. It is never retried and is
// surfaced immediately.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidation wraps err as a validation error.
func NewValidation(err error) *ValidationError {
	return &ValidationError{Err: err}
}

// FetchError is a transport or HTTP failure reaching a source.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is a content-extraction failure. Retrying does not help; the
// page's shape is the problem.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

// ProviderError is an AI backend failure, surfaced distinctly from fetch and
// parse failures so callers can apply different recovery messaging.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// CodeOf classifies an error into its category.
func CodeOf(err error) Code {
	var (
		validationErr *ValidationError
		fetchErr      *FetchError
		parseErr      *ParseError
		providerErr   *ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		return CodeValidation
	case errors.As(err, &parseErr):
		return CodeContentExtraction
	case errors.As(err, &fetchErr):
		switch fetchErr.StatusCode {
		case http.StatusNotFound:
			return CodeNotFound
		case http.StatusTooManyRequests:
			return CodeRateLimited
		default:
			return CodeNetworkError
		}
	case errors.As(err, &providerErr):
		return CodeAIError
	default:
		return CodeInternal
	}
}

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
