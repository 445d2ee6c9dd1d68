package clierrors

import (
	"errors"
)

type ExitError interface {
	error
	ExitCode() int
}

type exitError struct {
	Code  int
	Cause error
}

// WithExitCode attaches a process exit code to an error
func WithExitCode(e error, c int) ExitError {
	if e == nil {
		return nil
	}

	return exitError{
		Code:  c,
		Cause: e,
	}
}

func (e exitError) Error() string {
	return e.Cause.Error()
}

func (e exitError) Unwrap() error {
	return e.Cause
}

func (e exitError) ExitCode() int {
	return e.Code
}

// ExitCode returns the exit code for an error: 0 for nil, the attached code
// if there is one, and 1 otherwise
func ExitCode(e error) int {
	if e == nil {
		return 0
	}

	var ee ExitError
	if errors.As(e, &ee) {
		return ee.ExitCode()
	}

	return 1
}
