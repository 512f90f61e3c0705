package nmossim

import "github.com/pkg/errors"

// noWire is the internal null-wire sentinel. The loader translates the
// on-disk NO_WIRE (0xFFFD) constant to this value.
const noWire int32 = -1

// Netlist is the flat, struct-of-arrays storage for a loaded circuit: one
// slot per wire and one slot per transistor, plus CSR-style adjacency from
// wires to the transistors whose channel or gate they participate in.
//
// Netlist arrays are allocated once (see NewNetlist) and never resized;
// after construction only State, Pulled and a transistor's gate state
// mutate.
type Netlist struct {
	wireNames []string
	pulled    []WireState
	state     []WireState
	nullWire  []bool

	// CSR adjacency: wire i's control transistors are
	// controlIDs[controlOffsets[i]:controlOffsets[i+1]], likewise for gates.
	controlOffsets []int32
	controlIDs     []int32
	gateOffsets    []int32
	gateIDs        []int32

	fetSide1   []int32
	fetSide2   []int32
	fetGate    []int32
	fetOn      []bool
	nullFet    []bool

	nameIndex map[string]int32
	vcc, gnd  int32
}

// NewNetlist allocates storage for numWires wires and numFets transistors.
// Callers (typically the netlistfile loader) populate the returned Netlist
// via the setter methods in netlist_build.go, then call ResolveRails,
// ValidateAdjacency and InitGateStates.
func NewNetlist(numWires, numFets int) *Netlist {
	return &Netlist{
		wireNames:      make([]string, numWires),
		pulled:         make([]WireState, numWires),
		state:          make([]WireState, numWires),
		nullWire:       make([]bool, numWires),
		controlOffsets: make([]int32, numWires+1),
		gateOffsets:    make([]int32, numWires+1),
		fetSide1:       make([]int32, numFets),
		fetSide2:       make([]int32, numFets),
		fetGate:        make([]int32, numFets),
		fetOn:          make([]bool, numFets),
		nullFet:        make([]bool, numFets),
		nameIndex:      make(map[string]int32, numWires),
		vcc:            noWire,
		gnd:            noWire,
	}
}

// NumWires returns the number of wire slots (including null slots).
func (n *Netlist) NumWires() int { return len(n.wireNames) }

// NumFets returns the number of transistor slots (including null slots).
func (n *Netlist) NumFets() int { return len(n.fetSide1) }

// VCC returns the index of the permanently-HIGH power rail wire.
func (n *Netlist) VCC() int32 { return n.vcc }

// GND returns the index of the permanently-GROUNDED power rail wire.
func (n *Netlist) GND() int32 { return n.gnd }

// WireByName resolves a wire name to its index.
func (n *Netlist) WireByName(name string) (int32, bool) {
	i, ok := n.nameIndex[name]
	return i, ok
}

// WireName returns the (possibly empty) name of wire i.
func (n *Netlist) WireName(i int32) string { return n.wireNames[i] }

// IsNullWire reports whether wire i is a null (sentinel) slot.
func (n *Netlist) IsNullWire(i int32) bool {
	if i < 0 || int(i) >= len(n.nullWire) {
		return true
	}
	return n.nullWire[i]
}

// State returns the current logical state of wire i.
func (n *Netlist) State(i int32) WireState { return n.state[i] }

// SetState sets the logical state of wire i. It is a bug to call this on
// VCC or GND; nothing here enforces that at runtime, so tests are what
// catch it.
func (n *Netlist) SetState(i int32, s WireState) { n.state[i] = s }

// Pulled returns the externally-imposed pull on wire i: PulledHigh,
// PulledLow, or 0 if unpulled.
func (n *Netlist) Pulled(i int32) WireState { return n.pulled[i] }

// SetPulled sets the externally-imposed pull on wire i.
func (n *Netlist) SetPulled(i int32, s WireState) { n.pulled[i] = s }

// ControlTransistors returns the transistor indices whose channel (side1 or
// side2) is wire i.
func (n *Netlist) ControlTransistors(i int32) []int32 {
	return n.controlIDs[n.controlOffsets[i]:n.controlOffsets[i+1]]
}

// GateTransistors returns the transistor indices whose gate is wire i.
func (n *Netlist) GateTransistors(i int32) []int32 {
	return n.gateIDs[n.gateOffsets[i]:n.gateOffsets[i+1]]
}

// CapacitanceWeight returns |control_transistors| + |gate_transistors| for
// wire i, a rough proxy for how much parasitic capacitance the wire carries,
// used by the calculator's charge-sharing tie-break. A transistor id that
// appears in both lists (the wire is simultaneously a channel terminal and a
// gate input elsewhere) is deliberately double-counted: it really does
// contribute capacitance twice, once per role.
func (n *Netlist) CapacitanceWeight(i int32) int {
	return len(n.ControlTransistors(i)) + len(n.GateTransistors(i))
}

// IsNullFet reports whether transistor t is a null (sentinel) slot.
func (n *Netlist) IsNullFet(t int32) bool { return n.nullFet[t] }

// GateState reports whether transistor t currently conducts (gate == HIGH).
func (n *Netlist) GateState(t int32) bool { return n.fetOn[t] }

// SetGateState sets transistor t's gate-state bit.
func (n *Netlist) SetGateState(t int32, on bool) { n.fetOn[t] = on }

// Side1 and Side2 return transistor t's two channel wires.
func (n *Netlist) Side1(t int32) int32 { return n.fetSide1[t] }
func (n *Netlist) Side2(t int32) int32 { return n.fetSide2[t] }

// Gate returns transistor t's gate wire.
func (n *Netlist) Gate(t int32) int32 { return n.fetGate[t] }

// OtherSide returns the wire on the far side of transistor t from w: if
// side1 == w, other is side2; if side2 == w, other is side1. If
// (pathologically) both sides equal w, the side2 branch wins simply because
// it is evaluated last.
func (n *Netlist) OtherSide(t int32, w int32) int32 {
	other := noWire
	if n.fetSide1[t] == w {
		other = n.fetSide2[t]
	}
	if n.fetSide2[t] == w {
		other = n.fetSide1[t]
	}
	return other
}

// Snapshot returns a copy of every wire's current state, in wire-index
// order, for get_wires_state and for round-trip / idempotence tests.
func (n *Netlist) Snapshot() []WireState {
	out := make([]WireState, len(n.state))
	copy(out, n.state)
	return out
}

// resolveRails locates VCC/VSS by name and pins their permanent state. It is
// called, via ResolveRails, once wire names are populated.
func (n *Netlist) resolveRails() error {
	vcc, ok := n.nameIndex["VCC"]
	if !ok {
		return errors.New("netlist missing required wire \"VCC\"")
	}
	gnd, ok := n.nameIndex["VSS"]
	if !ok {
		return errors.New("netlist missing required wire \"VSS\"")
	}
	n.vcc, n.gnd = vcc, gnd
	n.state[vcc] = High
	n.state[gnd] = Grounded
	return nil
}
