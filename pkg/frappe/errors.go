package frappe

import (
	"encoding/json"
	"fmt"
)

// ExceptionTransport is the synthetic exception name used when a request
// fails before any HTTP response exists (DNS failure, refused connection,
// timeout). HTTPStatus is 0 in that case.
const ExceptionTransport = "TransportError"

// RemoteError is the single error kind surfaced by all operations. It merges
// the server's JSON error body with the HTTP status line and an
// operation-specific message.
type RemoteError struct {
	// HTTPStatus is the numeric status code, or 0 when the request never
	// produced a response.
	HTTPStatus int

	// HTTPStatusText is the status line text ("NOT FOUND", ...).
	HTTPStatusText string

	// Message describes which operation failed. For create and update the
	// server's own message wins when it supplied one.
	Message string

	// Exception is the server's exception string, falling back to exc_type,
	// falling back to "". Transport failures use ExceptionTransport.
	Exception string

	// ExcType is the server's exc_type field verbatim.
	ExcType string

	// Fields holds the remaining server-defined keys of the error body.
	Fields map[string]any

	// Err is the underlying transport error, if any.
	Err error
}

func (e *RemoteError) Error() string {
	if e.HTTPStatus == 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Exception != "" {
		return fmt.Sprintf("%s (status %d %s): %s", e.Message, e.HTTPStatus, e.HTTPStatusText, e.Exception)
	}
	return fmt.Sprintf("%s (status %d %s)", e.Message, e.HTTPStatus, e.HTTPStatusText)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// newRemoteError normalizes a non-2xx response body into a RemoteError.
// The body may be empty or non-JSON; both normalize to an error with no
// server fields.
func newRemoteError(status int, statusText string, body []byte, defaultMsg string, preferServerMsg bool) *RemoteError {
	e := &RemoteError{
		HTTPStatus:     status,
		HTTPStatusText: statusText,
		Message:        defaultMsg,
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return e
	}

	if s, ok := fields["exception"].(string); ok {
		e.Exception = s
	}
	if s, ok := fields["exc_type"].(string); ok {
		e.ExcType = s
		if e.Exception == "" {
			e.Exception = s
		}
	}
	if preferServerMsg {
		if s, ok := fields["message"].(string); ok && s != "" {
			e.Message = s
		}
	}

	delete(fields, "exception")
	delete(fields, "exc_type")
	delete(fields, "message")
	if len(fields) > 0 {
		e.Fields = fields
	}

	return e
}

// newTransportError normalizes a request that failed with no response.
func newTransportError(err error, defaultMsg string) *RemoteError {
	return &RemoteError{
		Message:   defaultMsg,
		Exception: ExceptionTransport,
		Err:       err,
	}
}
