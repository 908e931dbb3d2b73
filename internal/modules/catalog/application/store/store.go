package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/modules/catalog/port"
	"pratoJaEdge/internal/shared/apiresult"
)

const (
	defaultSuccessMessage = "Operação realizada com sucesso!"
	defaultFailureMessage = "Erro ao realizar operação!"
)

// Messages are the fallback texts used when the upstream response carries no
// message of its own.
type Messages struct {
	ListFailed   string
	DetailFailed string
	Created      string
	CreateFailed string
	Updated      string
	UpdateFailed string
	Deleted      string
	DeleteFailed string
	SearchFailed string
}

func (m Messages) withDefaults() Messages {
	fill := func(target *string, fallback string) {
		if strings.TrimSpace(*target) == "" {
			*target = fallback
		}
	}
	fill(&m.ListFailed, defaultFailureMessage)
	fill(&m.DetailFailed, defaultFailureMessage)
	fill(&m.Created, defaultSuccessMessage)
	fill(&m.CreateFailed, defaultFailureMessage)
	fill(&m.Updated, defaultSuccessMessage)
	fill(&m.UpdateFailed, defaultFailureMessage)
	fill(&m.Deleted, defaultSuccessMessage)
	fill(&m.DeleteFailed, defaultFailureMessage)
	fill(&m.SearchFailed, defaultFailureMessage)
	return m
}

// Store is the cached action layer over one upstream entity. Every action runs
// exactly one upstream call, folds the outcome into an apiresult.Result, and
// commits the payload to the cache only when the call is still the most recent
// one for that cache slot. Superseded responses are dropped, so a slow list
// can never clobber the result of a newer one.
type Store struct {
	entity  string
	gateway port.BackendGateway
	msgs    Messages

	mu         sync.Mutex
	gen        uint64
	listGen    uint64
	currentGen uint64
	items      []any
	current    any
}

func New(entity string, gateway port.BackendGateway, msgs Messages) *Store {
	return &Store{entity: entity, gateway: gateway, msgs: msgs.withDefaults()}
}

// Items returns the cached list snapshot.
func (s *Store) Items() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Current returns the cached detail record, nil when none is loaded.
func (s *Store) Current() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Invalidate clears both caches and supersedes every in-flight call, so stale
// responses started before the invalidation cannot repopulate them.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.listGen = s.gen
	s.currentGen = s.gen
	s.items = nil
	s.current = nil
	slog.Debug("store cache invalidated", slog.String("entity", s.entity))
}

func (s *Store) List(ctx context.Context, credential string, page domain.PageRequest) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.List(ctx, credential, s.entity, page)
	if err != nil {
		s.commitList(g, nil)
		return apiresult.NormalizeError(err, s.msgs.ListFailed)
	}
	s.commitList(g, up.Items())
	return apiresult.Normalize(up, "")
}

func (s *Store) GetByID(ctx context.Context, credential, id string) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.Detail(ctx, credential, s.entity, id)
	if err != nil {
		s.commitCurrent(g, nil)
		return apiresult.NormalizeError(err, s.msgs.DetailFailed)
	}
	s.commitCurrent(g, up.Data())
	return apiresult.Normalize(up, "")
}

func (s *Store) Create(ctx context.Context, credential string, payload any) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.Create(ctx, credential, s.entity, payload)
	if err != nil {
		return apiresult.NormalizeError(err, s.msgs.CreateFailed)
	}
	s.commitWrite(g, up.Data())
	return apiresult.Normalize(up, s.msgs.Created)
}

func (s *Store) Update(ctx context.Context, credential, id string, payload any) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.Update(ctx, credential, s.entity, id, payload)
	if err != nil {
		return apiresult.NormalizeError(err, s.msgs.UpdateFailed)
	}
	s.commitWrite(g, up.Data())
	return apiresult.Normalize(up, s.msgs.Updated)
}

func (s *Store) Delete(ctx context.Context, credential, id string) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.Delete(ctx, credential, s.entity, id)
	if err != nil {
		return apiresult.NormalizeError(err, s.msgs.DeleteFailed)
	}
	s.commitWrite(g, nil)
	return apiresult.Normalize(up, s.msgs.Deleted)
}

func (s *Store) listByParent(ctx context.Context, credential, parent, parentID string, page domain.PageRequest) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.ListByParent(ctx, credential, s.entity, parent, parentID, page)
	if err != nil {
		s.commitList(g, nil)
		return apiresult.NormalizeError(err, s.msgs.ListFailed)
	}
	s.commitList(g, up.Items())
	return apiresult.Normalize(up, "")
}

func (s *Store) search(ctx context.Context, credential, filter string, page domain.PageRequest) apiresult.Result {
	g := s.begin()
	up, err := s.gateway.Search(ctx, credential, s.entity, filter, page)
	if err != nil {
		s.commitList(g, nil)
		return apiresult.NormalizeError(err, s.msgs.SearchFailed)
	}
	s.commitList(g, up.Items())
	return apiresult.Normalize(up, "")
}

// begin registers a new cache generation and returns its number. Commits carry
// it back so the store can tell whether a newer call has since taken over.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *Store) commitList(g uint64, items []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g < s.listGen {
		slog.Debug("stale list response dropped", slog.String("entity", s.entity))
		return
	}
	s.listGen = g
	s.items = items
}

func (s *Store) commitCurrent(g uint64, record any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g < s.currentGen {
		slog.Debug("stale detail response dropped", slog.String("entity", s.entity))
		return
	}
	s.currentGen = g
	s.current = record
}

// commitWrite lands a mutation: the returned record becomes the current one
// and the list cache is dropped, forcing the next read to refetch.
func (s *Store) commitWrite(g uint64, record any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g >= s.currentGen {
		s.currentGen = g
		s.current = record
	}
	if g >= s.listGen {
		s.listGen = g
		s.items = nil
	}
}
