package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"shopstream/contexts/shop/catalog-service/domain/entities"
	domainerrors "shopstream/contexts/shop/catalog-service/domain/errors"
)

// Store is an in-memory adapter implementing catalog ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu        sync.RWMutex
	products  map[string]entities.Product
	inventory map[string]entities.Inventory
	sequence  uint64
	now       time.Time
}

func NewStore(seedProducts []entities.Product) *Store {
	products := make(map[string]entities.Product, len(seedProducts))
	for _, product := range seedProducts {
		products[product.ID] = product
	}
	return &Store{
		products:  products,
		inventory: make(map[string]entities.Inventory),
	}
}

// SetNow pins the clock for deterministic tests; zero means wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	next := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("mem-%d", next), nil
}

func (s *Store) CreateProductWithInventory(
	_ context.Context,
	product entities.Product,
	inventory entities.Inventory,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return domainerrors.ErrDuplicateProduct
	}
	if _, exists := s.inventory[inventory.ProductID]; exists {
		return domainerrors.ErrDuplicateProduct
	}
	s.products[product.ID] = product
	s.inventory[inventory.ProductID] = inventory
	return nil
}

func (s *Store) DeleteProductWithInventory(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[productID]; !exists {
		return domainerrors.ErrProductNotFound
	}
	delete(s.products, productID)
	delete(s.inventory, productID)
	return nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[productID]
	if !exists {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) ListProducts(_ context.Context) ([]entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Product, 0, len(s.products))
	for _, product := range s.products {
		items = append(items, product)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetInventory(_ context.Context, productID string) (entities.Inventory, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inventory, exists := s.inventory[productID]
	if !exists {
		return entities.Inventory{}, false, nil
	}
	return inventory, true, nil
}
