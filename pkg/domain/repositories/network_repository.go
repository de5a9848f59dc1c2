package repositories

import (
	"context"

	"github.com/coldchain/planner/pkg/domain/entities"
)

// NetworkRepository exposes the node and route topology.
type NetworkRepository interface {
	Nodes(ctx context.Context) ([]*entities.Node, error)
	Node(ctx context.Context, id entities.NodeID) (*entities.Node, error)
	Legs(ctx context.Context) ([]*entities.RouteLeg, error)
}

// ProductRepository exposes the product catalog with shelf-life tables.
type ProductRepository interface {
	Products(ctx context.Context) ([]*entities.Product, error)
	Product(ctx context.Context, id entities.ProductID) (*entities.Product, error)
}
