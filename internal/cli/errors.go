package cli

import (
	"errors"
	"fmt"

	"todo-cli/internal/api"
	"todo-cli/internal/auth"
)

const (
	exitOK      = 0
	exitUser    = 1
	exitAuth    = 2
	exitBackend = 3
)

// usageError is a bad flag, argument or config value.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// notLoggedInError is returned by commands that need a session when none exists.
type notLoggedInError struct {
	msg string
}

func (e notLoggedInError) Error() string { return e.msg }

// reportedError has already been printed to stderr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// ExitCode maps an error to the process exit status: 1 for user errors,
// 2 for missing or rejected credentials, 3 for backend and connectivity
// failures.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var nl notLoggedInError
	var ae *auth.Error
	switch {
	case api.IsAuthRequired(err), errors.As(err, &nl):
		return exitAuth
	case errors.As(err, &ae):
		if ae.Status >= 500 {
			return exitBackend
		}
		return exitAuth
	case api.IsConnectivity(err), api.IsDomain(err):
		return exitBackend
	default:
		return exitUser
	}
}

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}
