package adapter

import "errors"

var (
	// ErrAuthRejected is returned for 401 and 403 responses.
	ErrAuthRejected = errors.New("authentication rejected by server")

	// ErrWorkflowNotFound is returned for 404 responses to calls that
	// address a single workflow.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrTransientServer is returned for 5xx responses and for requests that
	// never got a response.
	ErrTransientServer = errors.New("transient server error")

	// ErrProtocol is returned when a 2xx response body cannot be decoded.
	ErrProtocol = errors.New("unexpected response body")

	ErrBadRequest       = errors.New("bad request")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
