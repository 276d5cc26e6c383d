package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUpstreamURL is the production models endpoint.
const DefaultUpstreamURL = "https://openrouter.ai/api/v1/models"

var (
	// ErrUpstreamUnreachable indicates a network-level failure reaching the
	// upstream API.
	ErrUpstreamUnreachable = errors.New("upstream API unreachable")
	// ErrUpstreamStatus indicates a non-2xx upstream response.
	ErrUpstreamStatus = errors.New("upstream API returned error status")
	// ErrUpstreamMalformed indicates a response body that does not match the
	// expected shape. Shape mismatches fail closed; we never serve a
	// partially-decoded result.
	ErrUpstreamMalformed = errors.New("upstream API response malformed")
)

// Client fetches raw model records from the upstream API.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultUpstreamURL
	}
	return &Client{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type upstreamEnvelope struct {
	Data []UpstreamModel `json:"data"`
}

// FetchModels performs one GET against the upstream API and decodes the
// result. Errors are classified with the sentinel errors above; no retries
// happen at this layer.
func (c *Client) FetchModels(ctx context.Context) ([]UpstreamModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("constructing upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	var env upstreamEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: missing data array", ErrUpstreamMalformed)
	}
	return env.Data, nil
}
