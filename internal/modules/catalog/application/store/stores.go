package store

import (
	"context"

	"pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/modules/catalog/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/fiql"
)

// DishStore serves the menu catalog.
type DishStore struct{ *Store }

func NewDishStore(gateway port.BackendGateway) *DishStore {
	return &DishStore{New("dishes", gateway, Messages{
		ListFailed:   "Erro ao carregar os pratos!",
		DetailFailed: "Erro ao carregar o prato!",
		Created:      "Prato cadastrado com sucesso!",
		Updated:      "Prato atualizado com sucesso!",
		Deleted:      "Prato removido com sucesso!",
	})}
}

// DemandStore serves customer orders.
type DemandStore struct{ *Store }

func NewDemandStore(gateway port.BackendGateway) *DemandStore {
	return &DemandStore{New("demands", gateway, Messages{
		ListFailed:   "Erro ao carregar os pedidos!",
		DetailFailed: "Erro ao carregar o pedido!",
		Created:      "Pedido realizado com sucesso!",
		Updated:      "Pedido atualizado com sucesso!",
		Deleted:      "Pedido cancelado com sucesso!",
	})}
}

// DemandsByUser lists one customer's orders, paginated.
func (s *DemandStore) DemandsByUser(ctx context.Context, credential, userID string, page domain.PageRequest) apiresult.Result {
	return s.listByParent(ctx, credential, "user", userID, page)
}

// ItemStore serves the line items of a demand.
type ItemStore struct{ *Store }

func NewItemStore(gateway port.BackendGateway) *ItemStore {
	return &ItemStore{New("items", gateway, Messages{
		ListFailed: "Erro ao carregar os itens!",
		Created:    "Item adicionado com sucesso!",
		Updated:    "Item atualizado com sucesso!",
		Deleted:    "Item removido com sucesso!",
	})}
}

// ItemsByDemand lists the items belonging to one demand.
func (s *ItemStore) ItemsByDemand(ctx context.Context, credential, demandID string) apiresult.Result {
	return s.listByParent(ctx, credential, "demand", demandID, domain.PageRequest{})
}

// UserStore serves account records.
type UserStore struct{ *Store }

func NewUserStore(gateway port.BackendGateway) *UserStore {
	return &UserStore{New("users", gateway, Messages{
		ListFailed:   "Erro ao carregar os usuários!",
		DetailFailed: "Erro ao carregar o usuário!",
		Updated:      "Dados atualizados com sucesso!",
		Deleted:      "Conta removida com sucesso!",
	})}
}

// ByCPF fetches the account matching a CPF document.
func (s *UserStore) ByCPF(ctx context.Context, credential, cpf string) apiresult.Result {
	return s.listByParent(ctx, credential, "cpf", cpf, domain.PageRequest{})
}

// AddressFilter is the searchable projection of an address. Field order is
// fixed so the generated filter string is stable.
type AddressFilter struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	CEP    string `json:"cep"`
}

func (f AddressFilter) FIQL() string {
	return fiql.Build(
		fiql.Field{Name: "id", Value: f.ID},
		fiql.Field{Name: "userId", Value: f.UserID},
		fiql.Field{Name: "street", Value: f.Street},
		fiql.Field{Name: "city", Value: f.City},
		fiql.Field{Name: "state", Value: f.State},
		fiql.Field{Name: "cep", Value: f.CEP},
	)
}

// AddressStore serves delivery addresses.
type AddressStore struct{ *Store }

func NewAddressStore(gateway port.BackendGateway) *AddressStore {
	return &AddressStore{New("addresses", gateway, Messages{
		ListFailed:   "Erro ao carregar os endereços!",
		SearchFailed: "Erro ao buscar endereços!",
		Created:      "Endereço cadastrado com sucesso!",
		Updated:      "Endereço atualizado com sucesso!",
		Deleted:      "Endereço removido com sucesso!",
	})}
}

// Search posts the filter to the address search endpoint.
func (s *AddressStore) Search(ctx context.Context, credential string, filter AddressFilter, page domain.PageRequest) apiresult.Result {
	return s.search(ctx, credential, filter.FIQL(), page)
}

// CardFilter is the searchable projection of a payment card.
type CardFilter struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Holder string `json:"holder"`
	Brand  string `json:"brand"`
}

func (f CardFilter) FIQL() string {
	return fiql.Build(
		fiql.Field{Name: "id", Value: f.ID},
		fiql.Field{Name: "userId", Value: f.UserID},
		fiql.Field{Name: "holder", Value: f.Holder},
		fiql.Field{Name: "brand", Value: f.Brand},
	)
}

// CardStore serves saved payment cards.
type CardStore struct{ *Store }

func NewCardStore(gateway port.BackendGateway) *CardStore {
	return &CardStore{New("cards", gateway, Messages{
		ListFailed:   "Erro ao carregar os cartões!",
		SearchFailed: "Erro ao buscar cartões!",
		Created:      "Cartão cadastrado com sucesso!",
		Updated:      "Cartão atualizado com sucesso!",
		Deleted:      "Cartão removido com sucesso!",
	})}
}

// Search posts the filter to the card search endpoint.
func (s *CardStore) Search(ctx context.Context, credential string, filter CardFilter, page domain.PageRequest) apiresult.Result {
	return s.search(ctx, credential, filter.FIQL(), page)
}

// CEPStore caches the last resolved postal code lookup.
type CEPStore struct {
	lookup port.CEPLookup

	store *Store
}

func NewCEPStore(lookup port.CEPLookup) *CEPStore {
	return &CEPStore{lookup: lookup, store: New("cep", nil, Messages{
		DetailFailed: "Erro ao consultar o CEP!",
	})}
}

// Resolve looks the CEP up and caches the resulting address record.
func (s *CEPStore) Resolve(ctx context.Context, cep string) apiresult.Result {
	g := s.store.begin()
	up, err := s.lookup.AddressByCEP(ctx, cep)
	if err != nil {
		s.store.commitCurrent(g, nil)
		return apiresult.NormalizeError(err, s.store.msgs.DetailFailed)
	}
	s.store.commitCurrent(g, up.Data())
	return apiresult.Normalize(up, "")
}

// Current returns the cached address record.
func (s *CEPStore) Current() any { return s.store.Current() }
