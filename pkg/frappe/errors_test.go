package frappe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteError_Error(t *testing.T) {
	withException := &RemoteError{
		HTTPStatus:     404,
		HTTPStatusText: "Not Found",
		Message:        msgFetchFailed,
		Exception:      "DoesNotExistError",
	}
	assert.Contains(t, withException.Error(), "404")
	assert.Contains(t, withException.Error(), "DoesNotExistError")
	assert.Contains(t, withException.Error(), msgFetchFailed)

	withoutException := &RemoteError{
		HTTPStatus:     502,
		HTTPStatusText: "Bad Gateway",
		Message:        msgListFailed,
	}
	assert.Contains(t, withoutException.Error(), "502")

	transport := newTransportError(errors.New("connection refused"), msgFetchFailed)
	assert.Contains(t, transport.Error(), "connection refused")
}

func TestRemoteError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := newTransportError(cause, msgFetchFailed)
	assert.True(t, errors.Is(err, cause))
}

func TestNewRemoteError_FieldPrecedence(t *testing.T) {
	e := newRemoteError(417, "Expectation Failed",
		[]byte(`{"exception":"frappe.exceptions.ValidationError","exc_type":"ValidationError","message":"Missing subject","extra":1}`),
		msgCreateFailed, true)

	assert.Equal(t, "frappe.exceptions.ValidationError", e.Exception)
	assert.Equal(t, "ValidationError", e.ExcType)
	assert.Equal(t, "Missing subject", e.Message)
	require.NotNil(t, e.Fields)
	assert.Equal(t, float64(1), e.Fields["extra"])

	// Read-style operations keep their default message.
	e = newRemoteError(417, "Expectation Failed",
		[]byte(`{"message":"Server says no"}`), msgFetchFailed, false)
	assert.Equal(t, msgFetchFailed, e.Message)
}
