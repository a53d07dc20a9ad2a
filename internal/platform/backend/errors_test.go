package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewErrorClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		status      int
		code        string
		notFound    bool
		conflict    bool
		unavailable bool
	}{
		{name: "missing row", status: http.StatusNotAcceptable, code: "PGRST116", notFound: true},
		{name: "not found", status: http.StatusNotFound, notFound: true},
		{name: "duplicate", status: http.StatusConflict, code: "23505", conflict: true},
		{name: "duplicate code only", status: http.StatusBadRequest, code: "23505", conflict: true},
		{name: "transport", status: 0, unavailable: true},
		{name: "server", status: http.StatusBadGateway, unavailable: true},
		{name: "bad request", status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := NewError("visit.insert", tc.status, tc.code, errors.New("boom"))
			require.Equal(t, tc.notFound, IsNotFound(err))
			require.Equal(t, tc.conflict, IsConflict(err))
			require.Equal(t, tc.unavailable, IsUnavailable(err))
			if tc.notFound {
				require.ErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestWrapErrorPassesContextErrors(t *testing.T) {
	t.Parallel()

	require.Nil(t, WrapError("op", nil))
	require.Equal(t, context.Canceled, WrapError("op", context.Canceled))

	wrapped := WrapError("spot.one", fmt.Errorf("lookup: %w", ErrNotFound))
	require.True(t, IsNotFound(wrapped))
	require.Contains(t, wrapped.Error(), "spot.one")

	inner := NotFoundError("")
	require.Equal(t, "visit.one", WrapError("visit.one", inner).(*Error).Op())

	conflict := ConflictError("", errors.New("duplicate key"))
	annotated := WrapError("visit.create", fmt.Errorf("insert visit: %w", conflict))
	require.True(t, strings.HasPrefix(annotated.Error(), "insert visit: "), annotated.Error())
	require.True(t, IsConflict(annotated))
	require.Equal(t, "visit.create", conflict.Op())
}
