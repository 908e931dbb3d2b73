package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"pratoJaEdge/internal/modules/payments/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/rest"
)

// BoletoHTTPClient calls the upstream payment endpoint and hands the PDF
// through untouched.
type BoletoHTTPClient struct {
	rest *rest.Client
}

func NewBoletoHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *BoletoHTTPClient {
	return &BoletoHTTPClient{rest: rest.NewClient(baseURL, timeout, client)}
}

func (c *BoletoHTTPClient) GeneratePDF(ctx context.Context, credential string, order port.BoletoOrder) ([]byte, error) {
	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, "/payments/boleto-pdf", order)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")
	if trimmed := strings.TrimSpace(credential); trimmed != "" {
		req.Header.Set("Cookie", trimmed)
	}

	res, err := c.rest.Do(req)
	if err != nil {
		return nil, apiresult.NewTransportError(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return nil, apiresult.NewTransportError(err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, apiresult.NewUpstreamError(res.StatusCode, errorBody(raw))
	}
	return raw, nil
}

// errorBody decodes a failure payload when the service answered with JSON
// instead of a document.
func errorBody(raw []byte) map[string]any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	body := map[string]any{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

var _ port.BoletoAPI = (*BoletoHTTPClient)(nil)
