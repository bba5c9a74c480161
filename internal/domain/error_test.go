package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: ""},
		{name: "domain error", err: &Error{Code: EINVALID, Message: "bad input"}, want: EINVALID},
		{name: "wrapped domain error", err: fmt.Errorf("outer: %w", &Error{Code: ENOTFOUND}), want: ENOTFOUND},
		{name: "plain error", err: errors.New("boom"), want: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func Test_ErrorMessage_HidesInternalDetail(t *testing.T) {
	internal := Internal(errors.New("pq: connection refused"), "order.create", "failed to persist order")
	msg := ErrorMessage(internal)

	assert.NotContains(t, msg, "connection refused", "driver detail must not reach users")
	assert.NotContains(t, msg, "failed to persist order")

	plain := errors.New("boom")
	assert.Equal(t, ErrorMessage(internal), ErrorMessage(plain), "unknown errors read like internal ones")

	visible := Invalid("order.create", "order must contain at least one item")
	assert.Equal(t, "order must contain at least one item", ErrorMessage(visible))
}

func Test_Error_FormatsOpAndCause(t *testing.T) {
	cause := errors.New("row locked")
	err := WrapError(cause, ECONFLICT, "invoice.number", "could not issue invoice number")

	assert.EqualError(t, err, "invoice.number: could not issue invoice number: row locked")
	assert.ErrorIs(t, err, cause, "wrapping preserves the cause for errors.Is")
	assert.Equal(t, "invoice.number", ErrorOp(err))
}

func Test_WrapError_NilPassthrough(t *testing.T) {
	assert.Nil(t, WrapError(nil, EINTERNAL, "op", "message"))
}

func Test_IsCode(t *testing.T) {
	err := Conflict("invoice.status", "invoice already cancelled")

	assert.True(t, IsCode(err, ECONFLICT))
	assert.False(t, IsCode(err, EINVALID))
}
