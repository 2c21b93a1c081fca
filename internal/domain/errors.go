package domain

import "errors"

// Common domain errors
var (
	// Lead errors
	ErrNoLeads        = errors.New("no leads available")
	ErrEmptyLeadGroup = errors.New("lead group cannot be empty")

	// Prompt errors
	ErrPromptNotFound = errors.New("prompt version not found")
	ErrEmptyContent   = errors.New("content cannot be empty")

	// Optimization errors
	ErrEmptyEvalSet     = errors.New("evaluation set has no usable rows")
	ErrInvalidOptConfig = errors.New("invalid optimization configuration")

	// LLM errors
	ErrNoCredential     = errors.New("no credential configured for provider")
	ErrUnknownProvider  = errors.New("unknown LLM provider")
	ErrLLMRequestFailed = errors.New("LLM request failed")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("resource not found")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}

func NewDomainErrorWithCode(err error, message, code string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}
