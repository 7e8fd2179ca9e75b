package pathsource

import (
	"context"
	"testing"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(t *testing.T, codes ...[]int) *labyrinth.Grid {
	t.Helper()
	g, err := labyrinth.ParseGrid(codes)
	require.NoError(t, err)
	return g
}

func contiguous(t *testing.T, g *labyrinth.Grid, path []labyrinth.Position) {
	t.Helper()
	for k, p := range path {
		assert.Equal(t, labyrinth.Open, g.At(p), "step %d on %s", k, p)
		if k > 0 {
			assert.True(t, path[k-1].Adjacent(p), "step %d jumps", k)
		}
	}
}

func TestShortestPathAvoidsHazards(t *testing.T) {
	g := grid(t,
		[]int{0, 2, 0},
		[]int{0, 1, 0},
		[]int{0, 0, 0},
	)
	from, goal := labyrinth.Position{}, labyrinth.Position{Row: 0, Col: 2}

	path := ShortestPath(g, from, goal)
	require.Len(t, path, 7)
	assert.Equal(t, from, path[0])
	assert.Equal(t, goal, path[len(path)-1])
	contiguous(t, g, path)
}

func TestDepthFirstPathIsWalkable(t *testing.T) {
	g := grid(t,
		[]int{0, 0, 0, 0},
		[]int{0, 1, 1, 0},
		[]int{0, 0, 0, 0},
	)
	from, goal := labyrinth.Position{}, labyrinth.Position{Row: 2, Col: 3}

	path := DepthFirstPath(g, from, goal)
	require.NotEmpty(t, path)
	assert.Equal(t, from, path[0])
	assert.Equal(t, goal, path[len(path)-1])
	contiguous(t, g, path)
	assert.GreaterOrEqual(t, len(path), len(ShortestPath(g, from, goal)))
}

func TestUnreachableGoal(t *testing.T) {
	g := grid(t,
		[]int{0, 1, 0},
		[]int{2, 1, 0},
	)
	goal := labyrinth.Position{Row: 0, Col: 2}
	assert.Nil(t, ShortestPath(g, labyrinth.Position{}, goal))
	assert.Nil(t, DepthFirstPath(g, labyrinth.Position{}, goal))
	assert.Nil(t, ShortestPath(g, labyrinth.Position{}, labyrinth.Position{Row: 1, Col: 0}), "goal on a hazard")
}

func TestPathFromHazardCell(t *testing.T) {
	g := grid(t, []int{2, 0, 0})
	path := ShortestPath(g, labyrinth.Position{}, labyrinth.Position{Col: 2})
	assert.Equal(t, []labyrinth.Position{{}, {Col: 1}, {Col: 2}}, path)
}

func TestSolverFindPath(t *testing.T) {
	g := grid(t, []int{0, 0}, []int{0, 0})
	req := i.PathRequest{TargetID: "book", From: labyrinth.Position{}, Goal: labyrinth.Position{Row: 1, Col: 1}, Grid: g}

	for _, algo := range []string{"bfs", "BFS", "dfs", ""} {
		req.Algorithm = algo
		path, err := Solver{}.FindPath(context.Background(), req)
		require.NoError(t, err, algo)
		assert.Len(t, path, 3, algo)
	}

	req.Algorithm = "astar"
	_, err := Solver{}.FindPath(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	req.Grid = nil
	_, err = Solver{}.FindPath(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingGrid)
}
