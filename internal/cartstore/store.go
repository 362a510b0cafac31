package cartstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/medkala/medstore/internal/models"
)

// Store keeps one cart per owner. Mutations are local to the backend and
// never reach the network themselves; every mutation is persisted before it
// returns. Removing a product that is not in the cart is a no-op.
type Store interface {
	Items(ctx context.Context, owner uuid.UUID) ([]models.CartItem, error)
	Add(ctx context.Context, owner, product uuid.UUID, quantity uint) (models.CartItem, error)
	RemoveOne(ctx context.Context, owner, product uuid.UUID) (*models.CartItem, error)
	RemoveAll(ctx context.Context, owner, product uuid.UUID) error
	Clear(ctx context.Context, owner uuid.UUID) error
}
