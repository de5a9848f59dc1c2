package entities

import (
	"testing"
)

func TestNewNodeValidation(t *testing.T) {
	if _, err := NewNode("", Manufacturing, 0.5, 0); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := NewNode("HUB", Hub, 0.5, 0); err == nil {
		t.Error("changeover hours on a non-manufacturing node accepted")
	}
	if _, err := NewNode("STORE", DeliveryPoint, 0, -1); err == nil {
		t.Error("negative dock capacity accepted")
	}
	if _, err := NewNode("PLANT", Manufacturing, 0.5, 2); err != nil {
		t.Errorf("valid node rejected: %v", err)
	}
}

func TestNewRouteLegValidation(t *testing.T) {
	if _, err := NewRouteLeg("A", "A", 1, 10); err == nil {
		t.Error("self-loop accepted")
	}
	if _, err := NewRouteLeg("A", "B", -1, 10); err == nil {
		t.Error("negative transit accepted")
	}
	if _, err := NewRouteLeg("A", "B", 1, 0); err == nil {
		t.Error("zero vehicle capacity accepted")
	}
	leg, err := NewRouteLeg("A", "B", 1, 10)
	if err != nil {
		t.Fatalf("valid leg rejected: %v", err)
	}
	if got := leg.Key(); got != "A>B" {
		t.Errorf("leg key = %q", got)
	}
}

func TestRouteValidate(t *testing.T) {
	ab := RouteLeg{Origin: "A", Dest: "B", TransitDays: 1, VehicleCapacityPallets: 10}
	bc := RouteLeg{Origin: "B", Dest: "C", TransitDays: 2, VehicleCapacityPallets: 10}
	ca := RouteLeg{Origin: "C", Dest: "A", TransitDays: 1, VehicleCapacityPallets: 10}

	good := Route{Legs: []RouteLeg{ab, bc}}
	if err := good.Validate(); err != nil {
		t.Errorf("connected route rejected: %v", err)
	}
	if got := good.TransitDays(); got != 3 {
		t.Errorf("transit days = %d, want 3", got)
	}

	disconnected := Route{Legs: []RouteLeg{ab, ca}}
	if err := disconnected.Validate(); err == nil {
		t.Error("disconnected route accepted")
	}

	cycle := Route{Legs: []RouteLeg{ab, bc, ca}}
	if err := cycle.Validate(); err == nil {
		t.Error("route revisiting its origin accepted")
	}

	empty := Route{}
	if err := empty.Validate(); err == nil {
		t.Error("empty route accepted")
	}
}

func TestParseNodeRole(t *testing.T) {
	for name, want := range map[string]NodeRole{
		"manufacturing": Manufacturing,
		"hub":           Hub,
		"storage":       Storage,
		"delivery":      DeliveryPoint,
	} {
		got, err := ParseNodeRole(name)
		if err != nil {
			t.Errorf("ParseNodeRole(%q) failed: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseNodeRole(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseNodeRole("warehouse"); err == nil {
		t.Error("unknown role accepted")
	}
}
