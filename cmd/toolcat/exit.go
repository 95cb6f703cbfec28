package main

import "fmt"

// Exit codes beyond the generic failure.
const (
	exitNotFound    = 2
	exitUnavailable = 3
)

type exitError struct {
	code    int
	message string
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

func exitWith(code int, format string, args ...any) error {
	return exitError{code: code, message: fmt.Sprintf(format, args...)}
}
