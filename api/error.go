package api

import (
	"errors"
	"net/http"
)

// API Errors.
var (
	// ErrInvalidEndpoint is returned when an invalid endpoint is registered.
	ErrInvalidEndpoint = errors.New("endpoint is invalid")

	// ErrAlreadyRegistered is returned when there already is an endpoint with
	// the same path registered.
	ErrAlreadyRegistered = errors.New("an endpoint for this path is already registered")

	// ErrInvalidRequest may be returned (wrapped) by endpoint functions to
	// signal a client error. It results in a 400 response.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound may be returned (wrapped) by endpoint functions. It results
	// in a 404 response.
	ErrNotFound = errors.New("not found")

	errNoListenAddr = errors.New("no listen address for api available")
)

// errorStatus returns the http status code for an endpoint function error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
