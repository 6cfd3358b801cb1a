package errors

import "fmt"

// ErrorCode represents a Sortd error code.
type ErrorCode string

const (
	ErrNoInputPaths       ErrorCode = "NO_INPUT_PATHS"       // 400
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"      // 400
	ErrNoFiles            ErrorCode = "NO_FILES"             // 404
	ErrNoSelection        ErrorCode = "NO_SELECTION"         // 409
	ErrProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE" // 503
	ErrProviderAPI        ErrorCode = "PROVIDER_API"         // 502
	ErrProviderParse      ErrorCode = "PROVIDER_PARSE"       // 502
	ErrExecutionFailed    ErrorCode = "EXECUTION_FAILED"     // 500
	ErrInternal           ErrorCode = "INTERNAL"             // 500
)

// SortdError represents a structured error with code, status, and details.
type SortdError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SortdError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNoInputPaths creates a 400 error for a run with no input paths.
func NewNoInputPaths() *SortdError {
	return &SortdError{
		Code:    ErrNoInputPaths,
		Status:  400,
		Message: "no input paths provided",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SortdError {
	return &SortdError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidPath creates a 400 error for an input path that does not exist
// or cannot be accessed.
func NewInvalidPath(path, reason string) *SortdError {
	return &SortdError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("cannot use path %s: %s", path, reason),
		Details: map[string]any{"path": path},
	}
}

// NewNoFiles creates a 404 error for when scanning or extraction yields no files.
func NewNoFiles(msg string) *SortdError {
	return &SortdError{
		Code:    ErrNoFiles,
		Status:  404,
		Message: msg,
	}
}

// NewNoSelection creates a 409 error for when there is no proposal to execute.
func NewNoSelection(msg string) *SortdError {
	return &SortdError{
		Code:    ErrNoSelection,
		Status:  409,
		Message: msg,
	}
}

// NewProviderUnavailable creates a 503 error for an unreachable model service.
// The message tells the operator how to bring the service up rather than
// reporting a generic failure.
func NewProviderUnavailable(msg string) *SortdError {
	return &SortdError{
		Code:    ErrProviderUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewProviderAPI creates a 502 error for a model service that answered with an error.
func NewProviderAPI(msg string) *SortdError {
	return &SortdError{
		Code:    ErrProviderAPI,
		Status:  502,
		Message: msg,
	}
}

// NewProviderParse creates a 502 error for an unparseable model response.
func NewProviderParse(msg string) *SortdError {
	return &SortdError{
		Code:    ErrProviderParse,
		Status:  502,
		Message: msg,
	}
}

// NewExecutionFailed creates a 500 error for an execution batch with no valid operations.
func NewExecutionFailed(msg string) *SortdError {
	return &SortdError{
		Code:    ErrExecutionFailed,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SortdError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SortdError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a SortdError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SortdError); ok {
		return sErr.Code == code
	}
	return false
}
