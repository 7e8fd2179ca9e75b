package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/mazesource"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMazeHandlerServesItsOwnClients(t *testing.T) {
	mux := http.NewServeMux()
	NewMazeHandler(fixedMazes{layout: corridor(t)}, pathsource.Solver{}, testLogger(t)).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()
	ctx := context.Background()

	_, err := pathsource.NewHTTPClient(srv.URL, nil).FindPath(ctx, i.PathRequest{TargetID: "khouk", Algorithm: "bfs"})
	assert.ErrorIs(t, err, pathsource.ErrBadStatus, "no labyrinth yet")

	layout, err := mazesource.NewHTTPClient(srv.URL, nil).Fetch(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, corridor(t).Grid.Codes(), layout.Grid.Codes())
	assert.Contains(t, layout.Targets, labyrinth.TargetID("khouk"))

	path, err := pathsource.NewHTTPClient(srv.URL, nil).FindPath(ctx, i.PathRequest{TargetID: "khouk", Algorithm: "BFS"})
	require.NoError(t, err)
	assert.Len(t, path, 5)
	assert.Equal(t, labyrinth.Position{}, path[0])

	_, err = pathsource.NewHTTPClient(srv.URL, nil).FindPath(ctx, i.PathRequest{TargetID: "khouk", Algorithm: "astar"})
	assert.ErrorIs(t, err, pathsource.ErrBadStatus)
	_, err = pathsource.NewHTTPClient(srv.URL, nil).FindPath(ctx, i.PathRequest{TargetID: "okhtik", Algorithm: "bfs"})
	assert.ErrorIs(t, err, pathsource.ErrBadStatus)
}

func TestMazeHandlerRejectsBadDifficulty(t *testing.T) {
	mux := http.NewServeMux()
	NewMazeHandler(fixedMazes{layout: corridor(t)}, pathsource.Solver{}, testLogger(t)).Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/family-labyrinth?difficulty=hard", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
