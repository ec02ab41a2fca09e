package jobpipe

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type JobpipeError struct {
	Msg string
}

func (e *JobpipeError) Error() string {
	return e.Msg
}

func NewErr(msg string) error {
	return &JobpipeError{Msg: msg}
}

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrDuplicateTask  = errors.New("task already registered")
	ErrInvalidContext = errors.New("task context has no id")
)

// WithStackTrace wraps err with the current call stack unless it already
// carries one. A nil err stays nil.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

// ErrorStack returns the stack trace recorded on err, or an empty string.
func ErrorStack(err error) string {
	var goerr *goerrors.Error
	if errors.As(err, &goerr) {
		return string(goerr.Stack())
	}
	return ""
}

// recoverPanic recovers from a panic and hands the cause to onPanic as an
// error with a stack trace. Must be called from a defer statement.
func recoverPanic(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, isError := rec.(error)
		if !isError {
			err = fmt.Errorf("%v", rec)
		}
		onPanic(goerrors.Wrap(err, 2))
	}
}
