package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/modules/catalog/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/rest"
)

// entityEndpoint describes how one entity maps onto the upstream REST API.
type entityEndpoint struct {
	basePath   string
	searchPath string
	// parentPaths maps a relation name to its endpoint and the query key
	// carrying the parent identifier.
	parentPaths map[string]parentEndpoint
	// paginated marks parent reads that carry paging parameters.
	paginatedParents bool
}

type parentEndpoint struct {
	path     string
	queryKey string
}

var entityEndpoints = map[string]entityEndpoint{
	"dishes": {
		basePath: "/dishes",
	},
	"demands": {
		basePath: "/demands",
		parentPaths: map[string]parentEndpoint{
			"user": {path: "/demands/user", queryKey: "userId"},
		},
		paginatedParents: true,
	},
	"items": {
		basePath: "/items",
		parentPaths: map[string]parentEndpoint{
			"demand": {path: "/items/demand", queryKey: "demandId"},
		},
	},
	"users": {
		basePath: "/users",
		parentPaths: map[string]parentEndpoint{
			"cpf": {path: "/users/cpf", queryKey: "cpf"},
		},
	},
	"addresses": {
		basePath:   "/addresses",
		searchPath: "/addresses/search",
	},
	"cards": {
		basePath:   "/cards",
		searchPath: "/cards/search",
	},
}

// BackendHTTPClient implements port.BackendGateway against the platform API.
// The acting session's upstream credential rides the Cookie header of every
// request; the edge itself holds no platform credential.
type BackendHTTPClient struct {
	rest *rest.Client
}

func NewBackendHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *BackendHTTPClient {
	return &BackendHTTPClient{rest: rest.NewClient(baseURL, timeout, client)}
}

func (c *BackendHTTPClient) List(ctx context.Context, credential, entity string, page domain.PageRequest) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, credential, endpoint.basePath, page.Query())
}

func (c *BackendHTTPClient) Detail(ctx context.Context, credential, entity, id string) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	path, err := resourcePath(endpoint.basePath, id)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, credential, path, nil)
}

func (c *BackendHTTPClient) Create(ctx context.Context, credential, entity string, payload any) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, credential, http.MethodPost, endpoint.basePath, payload)
}

func (c *BackendHTTPClient) Update(ctx context.Context, credential, entity, id string, payload any) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	path, err := resourcePath(endpoint.basePath, id)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, credential, http.MethodPut, path, payload)
}

func (c *BackendHTTPClient) Delete(ctx context.Context, credential, entity, id string) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	path, err := resourcePath(endpoint.basePath, id)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, credential, http.MethodDelete, path, nil)
}

func (c *BackendHTTPClient) ListByParent(ctx context.Context, credential, entity, parent, parentID string, page domain.PageRequest) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	relation, ok := endpoint.parentPaths[strings.ToLower(strings.TrimSpace(parent))]
	if !ok {
		slog.Warn("parent relation unsupported", slog.String("entity", entity), slog.String("parent", parent))
		return nil, fmt.Errorf("%w: %s by %s", port.ErrEntityUnsupported, entity, parent)
	}
	trimmedID := strings.TrimSpace(parentID)
	if trimmedID == "" {
		return nil, apiresult.NewUpstreamError(http.StatusBadRequest, map[string]any{"message": "identificador ausente"})
	}

	values := url.Values{}
	if endpoint.paginatedParents {
		values = page.Query()
	}
	values.Set(relation.queryKey, trimmedID)
	return c.get(ctx, credential, relation.path, values)
}

func (c *BackendHTTPClient) Search(ctx context.Context, credential, entity, filter string, page domain.PageRequest) (*apiresult.Upstream, error) {
	endpoint, err := resolveEndpoint(entity)
	if err != nil {
		return nil, err
	}
	if endpoint.searchPath == "" {
		return nil, fmt.Errorf("%w: %s search", port.ErrEntityUnsupported, entity)
	}
	body := map[string]any{"filter": strings.TrimSpace(filter)}
	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, endpoint.searchPath, body)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = page.Query().Encode()
	attachCredential(req, credential)
	return c.rest.DoUpstream(req)
}

func (c *BackendHTTPClient) get(ctx context.Context, credential, path string, values url.Values) (*apiresult.Upstream, error) {
	req, err := c.rest.NewJSONRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		req.URL.RawQuery = values.Encode()
	}
	attachCredential(req, credential)
	slog.Debug("backend request", slog.String("url", req.URL.String()))
	return c.rest.DoUpstream(req)
}

func (c *BackendHTTPClient) send(ctx context.Context, credential, method, path string, payload any) (*apiresult.Upstream, error) {
	req, err := c.rest.NewJSONRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	attachCredential(req, credential)
	slog.Debug("backend request", slog.String("method", method), slog.String("url", req.URL.String()))
	return c.rest.DoUpstream(req)
}

func attachCredential(req *http.Request, credential string) {
	if trimmed := strings.TrimSpace(credential); trimmed != "" {
		req.Header.Set("Cookie", trimmed)
	}
}

func resolveEndpoint(entity string) (entityEndpoint, error) {
	endpoint, ok := entityEndpoints[strings.ToLower(strings.TrimSpace(entity))]
	if !ok {
		slog.Warn("entity unsupported", slog.String("entity", entity))
		return entityEndpoint{}, fmt.Errorf("%w: %s", port.ErrEntityUnsupported, entity)
	}
	return endpoint, nil
}

func resourcePath(base, id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", apiresult.NewUpstreamError(http.StatusBadRequest, map[string]any{"message": "identificador ausente"})
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(trimmed), nil
}

var _ port.BackendGateway = (*BackendHTTPClient)(nil)
