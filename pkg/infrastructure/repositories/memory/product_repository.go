package memory

import (
	"context"
	"fmt"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/domain/repositories"
)

// ProductRepository provides in-memory product catalog storage
type ProductRepository struct {
	products map[entities.ProductID]*entities.Product
	order    []entities.ProductID
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[entities.ProductID]*entities.Product),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, p := range products {
		if _, exists := r.products[p.ID]; exists {
			return fmt.Errorf("duplicate product %s", p.ID)
		}
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return nil
}

// Products returns all products in load order
func (r *ProductRepository) Products(ctx context.Context) ([]*entities.Product, error) {
	out := make([]*entities.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

// Product returns one product by ID
func (r *ProductRepository) Product(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	p, exists := r.products[id]
	if !exists {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return p, nil
}
