package switchbot

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches any non-2xx HTTP response.
	ErrTransport = errors.New("switchbot: transport error")

	// ErrAPI matches any envelope whose statusCode is not StatusSuccess.
	ErrAPI = errors.New("switchbot: api error")
)

// TransportError is returned when the HTTP status is not 2xx.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("SwitchBot API error: HTTP %d %s", e.StatusCode, e.Status)
}

func (e *TransportError) Unwrap() error { return ErrTransport }

// APIError is returned when the HTTP call succeeded but the envelope reports a failure.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SwitchBot API error (code: %d): %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return ErrAPI }
