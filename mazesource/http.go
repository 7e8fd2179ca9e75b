package mazesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
)

const (
	mazePath       = "/api/family-labyrinth"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// ErrBadStatus is returned when the remote source answers with a non-2xx status.
var ErrBadStatus = errors.New("maze source returned an error status")

// HTTPClient fetches layouts from a remote maze source. It makes exactly one request
// per Fetch and never retries.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a client for the source at baseURL. A nil client gets a default
// with a timeout.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch asks the source for a layout at the given difficulty.
func (c *HTTPClient) Fetch(ctx context.Context, level int) (labyrinth.Layout, error) {
	q := url.Values{}
	q.Set("difficulty", strconv.Itoa(labyrinth.ClampLevel(level)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mazePath+"?"+q.Encode(), nil)
	if err != nil {
		return labyrinth.Layout{}, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return labyrinth.Layout{}, fmt.Errorf("fetching maze: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return labyrinth.Layout{}, fmt.Errorf("%w: %d %s", ErrBadStatus, res.StatusCode, strings.TrimSpace(string(body)))
	}

	var p Payload
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return labyrinth.Layout{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return p.Layout()
}
