package nmossim

import "testing"

// buildTinyNetlist hand-assembles a four-wire, one-transistor netlist
// (VCC, VSS, A, OUT with a single NMOS gated by A) directly through the
// builder surface in netlist_build.go, mirroring what netlistfile.Load does
// internally without going through CBOR.
func buildTinyNetlist(t *testing.T) *Netlist {
	t.Helper()
	n := NewNetlist(4, 1)
	names := []string{"VCC", "VSS", "A", "OUT"}
	pulled := []WireState{0, 0, PulledLow, PulledHigh}
	for i, name := range names {
		if err := n.SetWire(i, name, pulled[i], false); err != nil {
			t.Fatalf("SetWire(%d): %v", i, err)
		}
	}
	// A gates a transistor between OUT (side1) and VSS (side2).
	n.SetAdjacency(
		[]int32{0, 0, 1, 1, 2}, []int32{0, 0}, // control: VSS and OUT list fet 0
		[]int32{0, 0, 0, 1, 1}, []int32{0}, // gate: A lists fet 0
	)
	if err := n.SetFet(0, 3, 1, 2, false); err != nil {
		t.Fatalf("SetFet: %v", err)
	}
	if err := n.ResolveRails(); err != nil {
		t.Fatalf("ResolveRails: %v", err)
	}
	if err := n.ValidateAdjacency(); err != nil {
		t.Fatalf("ValidateAdjacency: %v", err)
	}
	n.InitGateStates()
	return n
}

func TestResolveRailsSetsPermanentState(t *testing.T) {
	n := buildTinyNetlist(t)
	if got := n.State(n.VCC()); got != High {
		t.Errorf("VCC state = %v, want HIGH", got)
	}
	if got := n.State(n.GND()); got != Grounded {
		t.Errorf("GND state = %v, want GROUNDED", got)
	}
}

func TestResolveRailsMissingRailErrors(t *testing.T) {
	n := NewNetlist(2, 0)
	if err := n.SetWire(0, "VCC", 0, false); err != nil {
		t.Fatal(err)
	}
	if err := n.SetWire(1, "GROUND", 0, false); err != nil {
		t.Fatal(err)
	}
	n.SetAdjacency([]int32{0, 0, 0}, nil, []int32{0, 0, 0}, nil)
	if err := n.ResolveRails(); err == nil {
		t.Fatal("expected an error for a netlist missing VSS")
	}
}

func TestValidateAdjacencyCatchesMismatch(t *testing.T) {
	n := NewNetlist(3, 1)
	for i, name := range []string{"VCC", "VSS", "A"} {
		if err := n.SetWire(i, name, 0, false); err != nil {
			t.Fatal(err)
		}
	}
	// Adjacency deliberately omits fet 0 from A's gate_transistors.
	n.SetAdjacency([]int32{0, 0, 0, 0}, nil, []int32{0, 0, 0, 0}, nil)
	if err := n.SetFet(0, 0, 1, 2, false); err != nil {
		t.Fatal(err)
	}
	if err := n.ValidateAdjacency(); err == nil {
		t.Fatal("expected ValidateAdjacency to reject inconsistent adjacency")
	}
}

func TestOtherSideBothSidesEqualPrefersSide2(t *testing.T) {
	n := NewNetlist(2, 1)
	if err := n.SetFet(0, 0, 0, 1, false); err != nil {
		t.Fatal(err)
	}
	if got := n.OtherSide(0, 0); got != 0 {
		t.Errorf("OtherSide with both sides equal w = %d, want 0 (side2 wins)", got)
	}
}

func TestCapacitanceWeightDoubleCountsSharedID(t *testing.T) {
	n := NewNetlist(2, 1)
	if err := n.SetFet(0, 0, 1, 0, false); err != nil {
		t.Fatal(err)
	}
	n.SetAdjacency([]int32{0, 1, 1}, []int32{0}, []int32{0, 1, 1}, []int32{0})
	if got := n.CapacitanceWeight(0); got != 2 {
		t.Errorf("CapacitanceWeight = %d, want 2 (transistor 0 counted in both lists)", got)
	}
}
