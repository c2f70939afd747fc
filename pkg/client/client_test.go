package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/pkg/presenter"
)

func TestToggleLike(t *testing.T) {
	var got toggleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/like-toggle", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		switch got.SubjectID {
		case "missing":
			w.WriteHeader(http.StatusNotFound)
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"store unavailable"}`))
		default:
			_, _ = w.Write([]byte(`{"liked":true,"count":3}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken("tok"))
	ctx := context.Background()

	res, err := c.ToggleLike(ctx, "modern_poem", "p1")
	require.NoError(t, err)
	assert.Equal(t, presenter.Snapshot{Liked: true, Count: 3}, res)
	assert.Equal(t, toggleRequest{SubjectID: "p1", SubjectType: "modern_poem"}, got)

	_, err = c.ToggleLike(ctx, "", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.ToggleLike(ctx, "", "broken")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Body, "store unavailable")
}

func TestTogglerRollsBackPresenter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	state := presenter.NewLikeState(presenter.Snapshot{Count: 2})
	_, err := state.Toggle(context.Background(), New(srv.URL).Toggler("poem", "p1"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, presenter.Snapshot{Count: 2}, state.Current())
	assert.Equal(t, presenter.Failed, state.Phase())
}
