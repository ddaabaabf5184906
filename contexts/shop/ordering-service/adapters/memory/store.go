package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"shopstream/contexts/shop/ordering-service/domain/entities"
	domainerrors "shopstream/contexts/shop/ordering-service/domain/errors"
	"shopstream/contexts/shop/ordering-service/ports"
)

// InventoryRecord is the slice of the catalog inventory the ordering store
// needs: current quantity plus the adjustment timestamp.
type InventoryRecord struct {
	ProductID string
	Quantity  int
	UpdatedAt time.Time
}

// Store is an in-memory adapter implementing ordering ports for local
// runtime and tests. It holds its own copy of product snapshots and
// inventory records, seeded by the caller.
type Store struct {
	mu        sync.RWMutex
	orders    map[string]entities.Order
	products  map[string]ports.ProductSnapshot
	inventory map[string]InventoryRecord
	sequence  uint64
	now       time.Time
}

func NewStore(seedProducts []ports.ProductSnapshot, seedInventory []InventoryRecord) *Store {
	products := make(map[string]ports.ProductSnapshot, len(seedProducts))
	for _, snapshot := range seedProducts {
		products[snapshot.ProductID] = snapshot
	}
	inventory := make(map[string]InventoryRecord, len(seedInventory))
	for _, record := range seedInventory {
		inventory[record.ProductID] = record
	}
	return &Store{
		orders:    make(map[string]entities.Order),
		products:  products,
		inventory: inventory,
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

func (s *Store) CreateOrderAdjustingInventory(
	_ context.Context,
	order entities.Order,
	inventoryUpdatedAt time.Time,
	policy ports.InventoryPolicy,
) (ports.OrderWriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return ports.OrderWriteResult{}, domainerrors.ErrDuplicateOrder
	}

	record, exists := s.inventory[order.ProductID]
	if !exists {
		s.orders[order.ID] = order
		return ports.OrderWriteResult{}, nil
	}

	remaining := record.Quantity - order.Quantity
	if remaining < 0 && !policy.AllowNegativeStock {
		return ports.OrderWriteResult{}, domainerrors.ErrInsufficientStock
	}

	s.orders[order.ID] = order
	record.Quantity = remaining
	record.UpdatedAt = inventoryUpdatedAt.UTC()
	s.inventory[order.ProductID] = record

	return ports.OrderWriteResult{InventoryAdjusted: true, RemainingStock: remaining}, nil
}

func (s *Store) GetOrder(_ context.Context, orderID string) (entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[orderID]
	if !exists {
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Store) ListOrders(_ context.Context) ([]entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Order, 0, len(s.orders))
	for _, order := range s.orders {
		items = append(items, order)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetProductSnapshot(_ context.Context, productID string) (ports.ProductSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, exists := s.products[productID]
	if !exists {
		return ports.ProductSnapshot{}, false, nil
	}
	return snapshot, true, nil
}

// GetInventoryRecord exposes the adjusted record for assertions and the
// in-memory runtime.
func (s *Store) GetInventoryRecord(productID string) (InventoryRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.inventory[productID]
	return record, exists
}
