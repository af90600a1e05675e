package api

import "errors"

// AuthRequiredError is returned for HTTP 401, whatever the body says.
type AuthRequiredError struct {
	Message string
}

func (e *AuthRequiredError) Error() string { return e.Message }

// DomainError is any other non-2xx response. Message is the backend's own
// message when it sent one, otherwise a localized per-operation fallback.
type DomainError struct {
	Status  int
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// ConnectivityError means the request never got an HTTP response.
type ConnectivityError struct {
	Message string
	Err     error
}

func (e *ConnectivityError) Error() string { return e.Message }

func (e *ConnectivityError) Unwrap() error { return e.Err }

func IsAuthRequired(err error) bool {
	var ae *AuthRequiredError
	return errors.As(err, &ae)
}

func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
