package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeFetchFailed   = "FETCH_FAILED"
	ErrCodeCrawlFailed   = "CRAWL_FAILED"
	ErrCodePDFExtraction = "PDF_EXTRACTION_FAILED"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"

	// Embedding-related error codes for the relevance pipeline.
	ErrCodeEmbeddingFailure     = "EMBEDDING_FAILURE"
	ErrCodeEmbeddingAuthFailure = "EMBEDDING_AUTH_FAILURE"
	ErrCodeEmbeddingRateLimited = "EMBEDDING_RATE_LIMITED"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RufusError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type RufusError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *RufusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RufusError) Unwrap() error {
	return e.Err
}

// NewRufusError creates a new RufusError.
func NewRufusError(code, message string, err error) *RufusError {
	return &RufusError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *RufusError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
