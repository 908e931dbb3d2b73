package infrastructure

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pratoJaEdge/internal/modules/catalog/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/rest"
)

var cepDigits = regexp.MustCompile(`^\d{8}$`)

// ViaCEPClient resolves postal codes through the public ViaCEP service.
type ViaCEPClient struct {
	rest *rest.Client
}

func NewViaCEPClient(baseURL string, timeout time.Duration, client *http.Client) *ViaCEPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ViaCEPClient{rest: rest.NewClient(baseURL, timeout, client)}
}

// AddressByCEP fetches the address record for an eight digit CEP. ViaCEP
// answers 200 with {"erro": true} for codes it does not know; that shape is
// folded into a 404 so callers see one failure contract.
func (c *ViaCEPClient) AddressByCEP(ctx context.Context, cep string) (*apiresult.Upstream, error) {
	digits := strings.NewReplacer("-", "", ".", "", " ", "").Replace(strings.TrimSpace(cep))
	if !cepDigits.MatchString(digits) {
		return nil, apiresult.NewUpstreamError(http.StatusBadRequest, map[string]any{"message": "CEP inválido"})
	}

	req, err := c.rest.NewJSONRequest(ctx, http.MethodGet, "/"+digits+"/json/", nil)
	if err != nil {
		return nil, err
	}
	up, err := c.rest.DoUpstream(req)
	if err != nil {
		return nil, err
	}
	if truthy, ok := up.Body["erro"]; ok && truthy != false && truthy != "false" {
		return nil, apiresult.NewUpstreamError(http.StatusNotFound, map[string]any{"message": "CEP não encontrado"})
	}
	return up, nil
}

var _ port.CEPLookup = (*ViaCEPClient)(nil)
