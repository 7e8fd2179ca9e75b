package pathsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) (*httptest.Server, *url.URL) {
	t.Helper()
	got := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = *r.URL
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestHTTPClientFindPath(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"path": [[0, 0], [0, 1], [1, 1]]}`)

	path, err := NewHTTPClient(srv.URL, nil).FindPath(context.Background(), i.PathRequest{TargetID: "khouk", Algorithm: "BFS"})
	require.NoError(t, err)
	assert.Equal(t, []labyrinth.Position{{}, {Col: 1}, {Row: 1, Col: 1}}, path)
	assert.Equal(t, "/api/family-labyrinth/path", got.Path)
	assert.Equal(t, "khouk", got.Query().Get("member_id"))
	assert.Equal(t, "bfs", got.Query().Get("algo"))
}

func TestHTTPClientEmptyPath(t *testing.T) {
	for _, body := range []string{`{"path": []}`, `{}`} {
		srv, _ := serve(t, http.StatusOK, body)
		path, err := NewHTTPClient(srv.URL, nil).FindPath(context.Background(), i.PathRequest{TargetID: "book"})
		require.NoError(t, err)
		assert.Empty(t, path)
	}
}

func TestHTTPClientErrors(t *testing.T) {
	srv, _ := serve(t, http.StatusNotFound, "member not found")
	_, err := NewHTTPClient(srv.URL, nil).FindPath(context.Background(), i.PathRequest{TargetID: "x"})
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Contains(t, err.Error(), "member not found")

	srv, _ = serve(t, http.StatusOK, `{"path": [[0]]}`)
	_, err = NewHTTPClient(srv.URL, nil).FindPath(context.Background(), i.PathRequest{TargetID: "x"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPayloadRoundTrip(t *testing.T) {
	path := []labyrinth.Position{{}, {Row: 1}}
	back, err := NewPayload(path).Positions()
	require.NoError(t, err)
	assert.Equal(t, path, back)
}
