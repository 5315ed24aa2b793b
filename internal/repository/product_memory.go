package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/google/uuid"
)

// MemoryProductRepository evaluates ProductQuery in process.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]product.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]product.Product)}
}

func (r *MemoryProductRepository) ListProducts(_ context.Context, q query.ProductQuery) ([]product.Product, error) {
	r.mu.RLock()
	matched := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.Filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b product.Product) int {
		return query.Compare(a, b, q.Sort)
	})

	skip := max(q.Skip, 0)
	if skip >= len(matched) {
		return []product.Product{}, nil
	}
	matched = matched[skip:]

	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	return matched, nil
}

func (r *MemoryProductRepository) CreateProduct(_ context.Context, p product.Product) (*product.Product, error) {
	p.ID = uuid.NewString()

	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()

	return &p, nil
}

func (r *MemoryProductRepository) GetProductByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, dberr.NotFound("products")
	}
	return &p, nil
}

func (r *MemoryProductRepository) UpdateProduct(_ context.Context, id string, update product.Update) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, dberr.NotFound("products")
	}

	update.Apply(&p)
	r.products[id] = p
	return &p, nil
}

func (r *MemoryProductRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return dberr.NotFound("products")
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) ReplaceAll(_ context.Context, products []product.Product) (int64, error) {
	fresh := make(map[string]product.Product, len(products))
	for _, p := range products {
		p.ID = uuid.NewString()
		fresh[p.ID] = p
	}

	r.mu.Lock()
	deleted := int64(len(r.products))
	r.products = fresh
	r.mu.Unlock()

	return deleted, nil
}
