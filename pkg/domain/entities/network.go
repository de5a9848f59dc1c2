package entities

import (
	"fmt"
)

// NodeID identifies a physical location in the network.
type NodeID string

// NodeRole classifies what a node is allowed to do.
type NodeRole int

const (
	Manufacturing NodeRole = iota
	Hub
	Storage
	DeliveryPoint
)

// String method for NodeRole enum
func (r NodeRole) String() string {
	switch r {
	case Manufacturing:
		return "Manufacturing"
	case Hub:
		return "Hub"
	case Storage:
		return "Storage"
	case DeliveryPoint:
		return "DeliveryPoint"
	default:
		return "Unknown"
	}
}

// ParseNodeRole parses a role name as written in scenario CSV files.
func ParseNodeRole(s string) (NodeRole, error) {
	switch s {
	case "manufacturing":
		return Manufacturing, nil
	case "hub":
		return Hub, nil
	case "storage":
		return Storage, nil
	case "delivery":
		return DeliveryPoint, nil
	default:
		return 0, fmt.Errorf("unknown node role %q", s)
	}
}

// Node represents a physical location with a role.
type Node struct {
	ID   NodeID
	Role NodeRole

	// ChangeoverHours is the setup time charged against labor each time
	// production of a product starts. Manufacturing nodes only.
	ChangeoverHours float64

	// DockCapacity is the maximum number of trucks the node can receive
	// per day. Zero means unconstrained.
	DockCapacity int
}

// NewNode creates a validated Node.
func NewNode(id NodeID, role NodeRole, changeoverHours float64, dockCapacity int) (*Node, error) {
	if id == "" {
		return nil, fmt.Errorf("node id cannot be empty")
	}
	if changeoverHours < 0 {
		return nil, fmt.Errorf("node %s: changeover hours cannot be negative", id)
	}
	if dockCapacity < 0 {
		return nil, fmt.Errorf("node %s: dock capacity cannot be negative", id)
	}
	if role != Manufacturing && changeoverHours != 0 {
		return nil, fmt.Errorf("node %s: only manufacturing nodes have changeover hours", id)
	}
	return &Node{ID: id, Role: role, ChangeoverHours: changeoverHours, DockCapacity: dockCapacity}, nil
}

// RouteLeg is a directed arc between two nodes.
type RouteLeg struct {
	Origin      NodeID
	Dest        NodeID
	TransitDays int

	// VehicleCapacityPallets is the capacity of one truck on this leg.
	VehicleCapacityPallets int
}

// NewRouteLeg creates a validated RouteLeg.
func NewRouteLeg(origin, dest NodeID, transitDays, vehicleCapacityPallets int) (*RouteLeg, error) {
	if origin == "" || dest == "" {
		return nil, fmt.Errorf("route leg endpoints cannot be empty")
	}
	if origin == dest {
		return nil, fmt.Errorf("route leg %s -> %s: origin and destination must differ", origin, dest)
	}
	if transitDays < 0 {
		return nil, fmt.Errorf("route leg %s -> %s: transit days cannot be negative", origin, dest)
	}
	if vehicleCapacityPallets <= 0 {
		return nil, fmt.Errorf("route leg %s -> %s: vehicle capacity must be positive", origin, dest)
	}
	return &RouteLeg{
		Origin:                 origin,
		Dest:                   dest,
		TransitDays:            transitDays,
		VehicleCapacityPallets: vehicleCapacityPallets,
	}, nil
}

// Key returns a stable identifier for the leg.
func (l RouteLeg) Key() string {
	return string(l.Origin) + ">" + string(l.Dest)
}

// Route is an explicit ordered list of legs. A shipment's path never
// revisits a node, so validation is ordered iteration, not graph traversal.
type Route struct {
	Legs []RouteLeg
}

// Validate checks that consecutive legs connect and no node repeats.
func (r Route) Validate() error {
	if len(r.Legs) == 0 {
		return fmt.Errorf("route must contain at least one leg")
	}
	seen := map[NodeID]bool{r.Legs[0].Origin: true}
	for i, leg := range r.Legs {
		if i > 0 && r.Legs[i-1].Dest != leg.Origin {
			return fmt.Errorf("route leg %d does not start where leg %d ends", i, i-1)
		}
		if seen[leg.Dest] {
			return fmt.Errorf("route revisits node %s", leg.Dest)
		}
		seen[leg.Dest] = true
	}
	return nil
}

// TransitDays returns the total transit time over all legs.
func (r Route) TransitDays() int {
	total := 0
	for _, leg := range r.Legs {
		total += leg.TransitDays
	}
	return total
}
