package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// MemoryRepository implements contracts.ProductRepository in process memory.
// 재시작 시 데이터 유실 (데모/테스트용)
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[string]*contracts.Product
	order    []string
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: make(map[string]*contracts.Product),
	}
}

// List returns copies of all products in insertion order
func (r *MemoryRepository) List(ctx context.Context) ([]*contracts.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*contracts.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id].Clone())
	}
	return products, nil
}

// Get returns a copy of one product
func (r *MemoryRepository) Get(ctx context.Context, id string) (*contracts.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, contracts.ErrProductNotFound
	}
	return p.Clone(), nil
}

// Create stores a new product
func (r *MemoryRepository) Create(ctx context.Context, product *contracts.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product %s already exists", product.ID)
	}
	r.products[product.ID] = product.Clone()
	r.order = append(r.order, product.ID)
	return nil
}

// Update replaces an existing product
func (r *MemoryRepository) Update(ctx context.Context, product *contracts.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return contracts.ErrProductNotFound
	}
	r.products[product.ID] = product.Clone()
	return nil
}

// Delete removes a product
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return contracts.ErrProductNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
