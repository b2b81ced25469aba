package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"uidlens/domain/core"
)

func TestWrapKeepsAppErrorCode(t *testing.T) {
	base := InvalidInput("bad kind")
	wrapped := Wrap(base, "override failed")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Equal(t, "override failed: bad kind", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapDerivesCodeFromSentinels(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{core.NewNotFoundError("file", "42"), CodeNotFound},
		{core.ErrProfileNotFound, CodeNotFound},
		{fmt.Errorf("read: %w", core.ErrUnsupportedFile), CodeUnsupportedFile},
		{core.ErrInvalidKind, CodeInvalidInput},
		{core.ErrSuperseded, CodeSuperseded},
		{stderrors.New("disk on fire"), CodeInternalError},
	}
	for _, tt := range tests {
		if got := GetCode(Wrap(tt.err, "ctx")); got != tt.code {
			t.Errorf("GetCode(Wrap(%v)) = %s, want %s", tt.err, got, tt.code)
		}
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeStorageError, stderrors.New("conn refused"))
	assert.Equal(t, CodeStorageError, GetCode(err))
	assert.True(t, IsAppError(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{NotFound("profile"), http.StatusNotFound},
		{ValidationError("x"), http.StatusBadRequest},
		{UnsupportedFile("a.pdf", core.ErrUnsupportedFile), http.StatusUnsupportedMediaType},
		{StorageError("redis", stderrors.New("down")), http.StatusServiceUnavailable},
		{core.ErrSuperseded, http.StatusConflict},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	assert.True(t, core.IsNotFoundError(NotFound("uploaded file")))
}
