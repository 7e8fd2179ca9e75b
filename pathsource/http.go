package pathsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
)

const (
	pathPath       = "/api/family-labyrinth/path"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// HTTP client errors.
var (
	ErrBadStatus = errors.New("path source returned an error status")
	ErrMalformed = errors.New("malformed path payload")
)

// Payload is the JSON body served by a remote path source.
type Payload struct {
	Path [][]int `json:"path"`
}

// NewPayload encodes a path.
func NewPayload(path []labyrinth.Position) Payload {
	p := Payload{Path: make([][]int, len(path))}
	for k, pos := range path {
		p.Path[k] = []int{pos.Row, pos.Col}
	}
	return p
}

// Positions decodes the path. A missing path decodes as unreachable.
func (p Payload) Positions() ([]labyrinth.Position, error) {
	path := make([]labyrinth.Position, 0, len(p.Path))
	for k, v := range p.Path {
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: step %d: want [row, col], got %v", ErrMalformed, k, v)
		}
		path = append(path, labyrinth.Position{Row: v[0], Col: v[1]})
	}
	return path, nil
}

// HTTPClient asks a remote path source. The remote side knows the round through the
// member id only, so the grid in the request is not sent.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *HTTPClient) FindPath(ctx context.Context, r i.PathRequest) ([]labyrinth.Position, error) {
	q := url.Values{}
	q.Set("member_id", string(r.TargetID))
	q.Set("algo", strings.ToLower(r.Algorithm))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching path: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %d %s", ErrBadStatus, res.StatusCode, strings.TrimSpace(string(body)))
	}

	var p Payload
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return p.Positions()
}
