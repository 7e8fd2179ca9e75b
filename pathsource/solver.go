// Package pathsource finds paths from the player to a family member.
package pathsource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
	"github.com/zyedidia/generic/stack"
)

// Algorithm tags.
const (
	BFS = "bfs"
	DFS = "dfs"
)

// Solver errors.
var (
	ErrUnknownAlgorithm = errors.New("unknown path algorithm")
	ErrMissingGrid      = errors.New("path request has no grid")
)

// Solver searches the round grid in process. Only open cells are walkable, so a path
// never crosses a hazard.
type Solver struct{}

// FindPath returns the cells from req.From to req.Goal, both included, or nil when the
// goal cannot be reached.
func (Solver) FindPath(ctx context.Context, req i.PathRequest) ([]labyrinth.Position, error) {
	if req.Grid == nil {
		return nil, ErrMissingGrid
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(req.Algorithm) {
	case BFS, "":
		return ShortestPath(req.Grid, req.From, req.Goal), nil
	case DFS:
		return DepthFirstPath(req.Grid, req.From, req.Goal), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, req.Algorithm)
}

// ShortestPath runs a breadth-first search.
func ShortestPath(g *labyrinth.Grid, from, goal labyrinth.Position) []labyrinth.Position {
	if !walkable(g, goal) || !g.InBounds(from) {
		return nil
	}

	parent := map[labyrinth.Position]labyrinth.Position{}
	visited := mapset.New[labyrinth.Position]()
	visited.Put(from)
	q := queue.New[labyrinth.Position]()
	q.Enqueue(from)

	for !q.Empty() {
		cur := q.Dequeue()
		if cur == goal {
			return walkBack(parent, from, goal)
		}
		for _, d := range labyrinth.Directions {
			next := cur.Add(d.Offset())
			if !walkable(g, next) || visited.Has(next) {
				continue
			}
			visited.Put(next)
			parent[next] = cur
			q.Enqueue(next)
		}
	}
	return nil
}

// DepthFirstPath runs a depth-first search exploring up, down, left, right in turn. The
// path it returns is walkable but usually not the shortest.
func DepthFirstPath(g *labyrinth.Grid, from, goal labyrinth.Position) []labyrinth.Position {
	if !walkable(g, goal) || !g.InBounds(from) {
		return nil
	}

	parent := map[labyrinth.Position]labyrinth.Position{}
	visited := mapset.New[labyrinth.Position]()
	s := stack.New[labyrinth.Position]()
	s.Push(from)

	for s.Size() > 0 {
		cur := s.Pop()
		if visited.Has(cur) {
			continue
		}
		visited.Put(cur)
		if cur == goal {
			return walkBack(parent, from, goal)
		}
		for _, d := range slices.Backward(labyrinth.Directions) {
			next := cur.Add(d.Offset())
			if !walkable(g, next) || visited.Has(next) {
				continue
			}
			parent[next] = cur
			s.Push(next)
		}
	}
	return nil
}

func walkable(g *labyrinth.Grid, p labyrinth.Position) bool {
	return g.InBounds(p) && g.At(p) == labyrinth.Open
}

func walkBack(parent map[labyrinth.Position]labyrinth.Position, from, goal labyrinth.Position) []labyrinth.Position {
	path := []labyrinth.Position{goal}
	for cur := goal; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
