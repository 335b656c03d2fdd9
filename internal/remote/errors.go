package remote

import (
	"fmt"
	"net/http"
)

// APIError is a non-success or undecodable response from the posts API.
type APIError struct {
	Code    int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("api error %d %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("api error %d %s", e.Code, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
