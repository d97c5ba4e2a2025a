package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxSeedBody caps how much of a seed response is read.
const maxSeedBody = 1 << 20

// Todo is one item returned by a placeholder to-do API.
type Todo struct {
	UserID    int    `json:"userId,omitempty"`
	ID        int    `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoClient fetches example items from a remote to-do API.
type TodoClient interface {
	FetchTodos(ctx context.Context, limit int) ([]Todo, error)
}

// httpTodoClient implements TodoClient against a JSON endpoint that accepts
// a _limit query parameter.
type httpTodoClient struct {
	baseURL string
	client  *http.Client
}

// NewTodoClient creates a TodoClient for the given endpoint. A zero timeout
// means the request is bounded only by its context.
func NewTodoClient(baseURL string, timeout time.Duration) TodoClient {
	return &httpTodoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchTodos issues GET {baseURL}?_limit={limit} and decodes the JSON array
// in the body. Any status other than 200 is an error.
func (c *httpTodoClient) FetchTodos(ctx context.Context, limit int) ([]Todo, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing seed url: %w", err)
	}
	q := endpoint.Query()
	q.Set("_limit", strconv.Itoa(limit))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting seed items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed endpoint returned status %d", resp.StatusCode)
	}

	var todos []Todo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSeedBody)).Decode(&todos); err != nil {
		return nil, fmt.Errorf("decoding seed items: %w", err)
	}
	return todos, nil
}
