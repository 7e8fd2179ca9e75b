package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/mazesource"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
)

// MazeHandler serves generated layouts and paths, so one server can act as the remote
// maze and path source of another. Paths are computed on the last layout served, from
// its start cell.
type MazeHandler struct {
	mazes  i.MazeSource
	paths  i.PathSource
	logger general_i.Logger

	mu   sync.Mutex
	last *labyrinth.Layout
}

func NewMazeHandler(mazes i.MazeSource, paths i.PathSource, logger general_i.Logger) *MazeHandler {
	return &MazeHandler{mazes: mazes, paths: paths, logger: logger}
}

// Register mounts the handlers on mux.
func (h *MazeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/family-labyrinth", h.serveMaze)
	mux.HandleFunc("GET /api/family-labyrinth/path", h.servePath)
}

func (h *MazeHandler) serveMaze(w http.ResponseWriter, r *http.Request) {
	level := labyrinth.MinLevel
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "difficulty must be an integer", http.StatusBadRequest)
			return
		}
		level = n
	}

	layout, err := h.mazes.Fetch(r.Context(), level)
	if err != nil {
		h.logger.Error(fmt.Sprintf("generating level %d: %s", level, err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.last = &layout
	h.mu.Unlock()
	writeJSON(w, mazesource.NewPayload(layout))
}

func (h *MazeHandler) servePath(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	last := h.last
	h.mu.Unlock()
	if last == nil {
		http.Error(w, "no labyrinth generated yet", http.StatusNotFound)
		return
	}

	id := labyrinth.TargetID(r.URL.Query().Get("member_id"))
	target, ok := last.Targets[id]
	if !ok {
		http.Error(w, fmt.Sprintf("member %q not in the labyrinth", id), http.StatusNotFound)
		return
	}

	path, err := h.paths.FindPath(r.Context(), i.PathRequest{
		TargetID:  id,
		Algorithm: r.URL.Query().Get("algo"),
		From:      last.Start,
		Goal:      target.Position,
		Grid:      last.Grid,
	})
	if errors.Is(err, pathsource.ErrUnknownAlgorithm) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, pathsource.NewPayload(path))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
