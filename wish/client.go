package wish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/esimov/bhaidooj-wasm/config"
)

// ErrStatus is returned when the wish endpoint answers with a non 2xx status.
var ErrStatus = errors.New("unexpected status")

// maxBody bounds the response size read from the wish endpoint.
const maxBody = 16 << 10

// Response is the payload of the wish endpoint.
type Response struct {
	Wish string `json:"wish"`
}

// Client fetches wishes from the server's wish endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: config.WishClientTimeout},
	}
}

// Generate implements Generator.
func (c *Client) Generate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+config.RouteWish, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", config.MimeJSON)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var r Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&r); err != nil {
		return "", fmt.Errorf("malformed wish payload: %w", err)
	}
	return Clean(r.Wish), nil
}
