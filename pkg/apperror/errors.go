package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	ErrStorageCorrupt = errors.New("ledger storage corrupt")
	ErrStorageWrite   = errors.New("ledger storage write failed")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StorageCorruptError reports persisted ledger data that exists but cannot be
// parsed into the expected shape. It is never recovered locally.
type StorageCorruptError struct {
	Source string
	Err    error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageCorrupt, e.Source, e.Err)
}

func (e *StorageCorruptError) Unwrap() error {
	return e.Err
}

func (e *StorageCorruptError) Is(target error) bool {
	return target == ErrStorageCorrupt
}

// StorageWriteError reports a durable write that did not complete. The ledger
// change that triggered it is not committed.
type StorageWriteError struct {
	Source string
	Err    error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageWrite, e.Source, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

func (e *StorageWriteError) Is(target error) bool {
	return target == ErrStorageWrite
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrStorageWrite) {
		return http.StatusServiceUnavailable
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
