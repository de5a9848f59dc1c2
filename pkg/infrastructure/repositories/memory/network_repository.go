package memory

import (
	"context"
	"fmt"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/domain/repositories"
)

// NetworkRepository provides in-memory network topology storage
type NetworkRepository struct {
	nodes map[entities.NodeID]*entities.Node
	order []entities.NodeID
	legs  []*entities.RouteLeg
}

// NewNetworkRepository creates a new in-memory network repository
func NewNetworkRepository() *NetworkRepository {
	return &NetworkRepository{
		nodes: make(map[entities.NodeID]*entities.Node),
	}
}

// Verify interface compliance
var _ repositories.NetworkRepository = (*NetworkRepository)(nil)

// LoadNodes loads nodes into the repository
func (r *NetworkRepository) LoadNodes(nodes []*entities.Node) error {
	for _, n := range nodes {
		if _, exists := r.nodes[n.ID]; exists {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		r.nodes[n.ID] = n
		r.order = append(r.order, n.ID)
	}
	return nil
}

// LoadLegs loads route legs into the repository
func (r *NetworkRepository) LoadLegs(legs []*entities.RouteLeg) error {
	for _, l := range legs {
		if _, exists := r.nodes[l.Origin]; !exists {
			return fmt.Errorf("leg %s references unknown origin", l.Key())
		}
		if _, exists := r.nodes[l.Dest]; !exists {
			return fmt.Errorf("leg %s references unknown destination", l.Key())
		}
		r.legs = append(r.legs, l)
	}
	return nil
}

// Nodes returns all nodes in load order
func (r *NetworkRepository) Nodes(ctx context.Context) ([]*entities.Node, error) {
	out := make([]*entities.Node, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.nodes[id])
	}
	return out, nil
}

// Node returns one node by ID
func (r *NetworkRepository) Node(ctx context.Context, id entities.NodeID) (*entities.Node, error) {
	n, exists := r.nodes[id]
	if !exists {
		return nil, fmt.Errorf("node %s not found", id)
	}
	return n, nil
}

// Legs returns all route legs
func (r *NetworkRepository) Legs(ctx context.Context) ([]*entities.RouteLeg, error) {
	return r.legs, nil
}
