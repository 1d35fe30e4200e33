package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	base := NotFound("ticket not found: %s", "t-1")
	wrapped := fmt.Errorf("load ticket: %w", base)

	require.Equal(t, KindNotFound, KindOf(wrapped))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad owner type"), http.StatusBadRequest},
		{InvalidState("ticket is closed"), http.StatusBadRequest},
		{NotFound("no such ticket"), http.StatusNotFound},
		{Forbidden("not the ticket owner"), http.StatusForbidden},
		{Upstream("stripe charge lookup failed", errors.New("timeout")), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
