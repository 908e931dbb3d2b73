package usecase

import (
	"sync"

	"pratoJaEdge/internal/modules/cart/domain"
)

// CartStore keeps one sealed cart per session. Carts are encrypted the moment
// they are saved and only opened on read.
type CartStore struct {
	codec *Codec

	mu     sync.Mutex
	sealed map[string]string
}

func NewCartStore(codec *Codec) *CartStore {
	return &CartStore{codec: codec, sealed: make(map[string]string)}
}

// Save seals and stores the session's cart.
func (s *CartStore) Save(sessionID string, cart domain.Cart) error {
	blob, err := s.codec.Seal(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sealed[sessionID] = blob
	s.mu.Unlock()
	return nil
}

// Load opens the session's cart. Unknown sessions and undecryptable blobs
// both come back as the empty cart.
func (s *CartStore) Load(sessionID string) domain.Cart {
	s.mu.Lock()
	blob, ok := s.sealed[sessionID]
	s.mu.Unlock()
	if !ok {
		return domain.Cart{}
	}
	return s.codec.Open(blob)
}

// Clear drops the session's cart, typically after checkout or logout.
func (s *CartStore) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sealed, sessionID)
	s.mu.Unlock()
}
