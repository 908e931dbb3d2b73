package port

import (
	"context"
	"errors"

	"pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/shared/apiresult"
)

var ErrEntityUnsupported = errors.New("entity not integrated")

// BackendGateway is the upstream CRUD surface shared by every domain store.
// credential is the ambient upstream Cookie value of the acting session;
// failures come back as *apiresult.UpstreamError.
type BackendGateway interface {
	List(ctx context.Context, credential, entity string, page domain.PageRequest) (*apiresult.Upstream, error)
	Detail(ctx context.Context, credential, entity, id string) (*apiresult.Upstream, error)
	Create(ctx context.Context, credential, entity string, payload any) (*apiresult.Upstream, error)
	Update(ctx context.Context, credential, entity, id string, payload any) (*apiresult.Upstream, error)
	Delete(ctx context.Context, credential, entity, id string) (*apiresult.Upstream, error)

	// ListByParent serves the parent-scoped reads (items by demand, demands
	// by user). parent names the relation as the endpoint table knows it.
	ListByParent(ctx context.Context, credential, entity, parent, parentID string, page domain.PageRequest) (*apiresult.Upstream, error)

	// Search posts a FIQL filter string to the entity's search endpoint.
	Search(ctx context.Context, credential, entity, filter string, page domain.PageRequest) (*apiresult.Upstream, error)
}

// CEPLookup resolves a Brazilian postal code into an address record.
type CEPLookup interface {
	AddressByCEP(ctx context.Context, cep string) (*apiresult.Upstream, error)
}
