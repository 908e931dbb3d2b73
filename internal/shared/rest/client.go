package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"pratoJaEdge/internal/shared/apiresult"
)

// Client wraps http.Client with base URL handling to avoid duplicating
// boilerplate in the upstream adapters.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration, client *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &Client{baseURL: trimmed, client: client}
}

func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	return http.NewRequestWithContext(ctx, method, url, body)
}

// NewJSONRequest marshals payload and builds a request with the JSON headers
// already set.
func (c *Client) NewJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.NewRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// DoUpstream performs the request and folds the outcome into the upstream
// contract: 2xx responses decode into *apiresult.Upstream, anything else
// becomes an *apiresult.UpstreamError. The response body is always consumed.
func (c *Client) DoUpstream(req *http.Request) (*apiresult.Upstream, error) {
	res, err := c.client.Do(req)
	if err != nil {
		return nil, apiresult.NewTransportError(err)
	}
	defer res.Body.Close()

	body := decodeBody(res.Body)
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, apiresult.NewUpstreamError(res.StatusCode, body)
	}
	return &apiresult.Upstream{Status: res.StatusCode, Body: body}, nil
}

// decodeBody tolerates empty and non-object bodies; a JSON array lands under
// "data" so list endpoints without an envelope still normalize.
func decodeBody(r io.Reader) map[string]any {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<20))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	switch typed := payload.(type) {
	case map[string]any:
		return typed
	case []any:
		return map[string]any{"data": typed}
	default:
		return map[string]any{"value": typed}
	}
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
