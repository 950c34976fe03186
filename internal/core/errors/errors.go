// # internal/core/errors/errors.go
package errors

import (
	"fmt"

	terrors "gitlab.com/tozd/go/errors"
)

type ErrorCode string

const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeNotSupported    ErrorCode = "NOT_SUPPORTED"
	CodeParse           ErrorCode = "PARSE_ERROR"
)

// DomainError is the error type crossing package boundaries. Err always
// carries a stack trace recorded where the failure was first seen.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath      = "path"
	CtxOperation = "operation"
	CtxOffset    = "offset"
	CtxKey       = "key"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: nil}
}

// Wrap attaches a code to err, recording a stack trace if err has none.
func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: terrors.WithStack(err)}
}

// Errorf builds a coded error whose cause is formatted like fmt.Errorf.
func Errorf(code ErrorCode, msg, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: msg, Err: terrors.Errorf(format, args...)}
}

// AddContext attaches key=value to the DomainError in err's chain, or wraps
// err as an internal error when there is none.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if terrors.As(err, &de) {
		de.WithContext(key, value)
		return err
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     terrors.WithStack(err),
		Context: map[string]interface{}{key: value},
	}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if terrors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the first DomainError in err's chain.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if terrors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
