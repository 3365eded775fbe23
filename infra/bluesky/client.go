package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/CrestNiraj12/skyterm/infra/auth"
)

// Client is a thin XRPC wrapper for the Bluesky API.
// It handles endpoint construction and bearer token injection.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	http          *http.Client
}

// NewClient creates an XRPC client for the given PDS.
func NewClient(baseURL string, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       baseURL,
		tokenProvider: tp,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx XRPC response.
type APIError struct {
	Method  string // XRPC method NSID
	Status  int
	Name    string // XRPC error name, e.g. "ExpiredToken"
	Message string
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("XRPC %s returned %d: %s: %s", e.Method, e.Status, e.Name, e.Message)
	}
	return fmt.Sprintf("XRPC %s returned %d: %s", e.Method, e.Status, e.Message)
}

// Query performs an authenticated XRPC query (GET).
func (c *Client) Query(ctx context.Context, nsid string, params url.Values) ([]byte, error) {
	return c.call(ctx, http.MethodGet, nsid, params, nil)
}

// Procedure performs an authenticated XRPC procedure (POST with JSON body).
func (c *Client) Procedure(ctx context.Context, nsid string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.call(ctx, http.MethodPost, nsid, nil, payload)
}

func (c *Client) call(ctx context.Context, method, nsid string, params url.Values, body []byte) ([]byte, error) {
	data, err := c.do(ctx, method, nsid, params, body)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Name == "ExpiredToken" {
		if r, ok := c.tokenProvider.(auth.Refresher); ok {
			if rerr := r.Refresh(ctx); rerr != nil {
				return nil, fmt.Errorf("auth: %w", rerr)
			}
			return c.do(ctx, method, nsid, params, body)
		}
	}
	return data, err
}

func (c *Client) do(ctx context.Context, method, nsid string, params url.Values, body []byte) ([]byte, error) {
	token, err := c.tokenProvider.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	endpoint := c.baseURL + "/xrpc/" + nsid
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", nsid, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: nsid, Status: resp.StatusCode, Message: string(data)}
		var xe struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &xe) == nil && xe.Error != "" {
			apiErr.Name = xe.Error
			apiErr.Message = xe.Message
		}
		return nil, apiErr
	}

	return data, nil
}
