package cartstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/medkala/medstore/internal/models"
)

// MemoryStore is the test backend. Lines keep insertion order per owner.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	carts  map[uuid.UUID][]models.CartItem
}

func NewMemory() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID][]models.CartItem)}
}

func (s *MemoryStore) Items(ctx context.Context, owner uuid.UUID) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CartItem, len(s.carts[owner]))
	copy(items, s.carts[owner])
	return items, nil
}

func (s *MemoryStore) Add(ctx context.Context, owner, product uuid.UUID, quantity uint) (models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[owner]
	for i := range lines {
		if lines[i].ProductID == product {
			lines[i].Quantity += quantity
			return lines[i], nil
		}
	}
	s.nextID++
	item := models.CartItem{ID: s.nextID, UserID: owner, ProductID: product, Quantity: quantity}
	s.carts[owner] = append(lines, item)
	return item, nil
}

func (s *MemoryStore) RemoveOne(ctx context.Context, owner, product uuid.UUID) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[owner]
	for i := range lines {
		if lines[i].ProductID != product {
			continue
		}
		if lines[i].Quantity > 1 {
			lines[i].Quantity--
			item := lines[i]
			return &item, nil
		}
		s.carts[owner] = append(lines[:i], lines[i+1:]...)
		return nil, nil
	}
	return nil, nil
}

func (s *MemoryStore) RemoveAll(ctx context.Context, owner, product uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[owner]
	for i := range lines {
		if lines[i].ProductID == product {
			s.carts[owner] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, owner uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, owner)
	return nil
}
