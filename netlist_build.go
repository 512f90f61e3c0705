package nmossim

import "github.com/pkg/errors"

// This file is the builder surface used by the netlistfile package (and any
// other CircuitLoader collaborator) to populate a Netlist allocated by
// NewNetlist. It is kept separate from the solver-facing accessors in
// netlist.go: nothing here is called from the hot recalc path.

// SetWire records wire i's name and pull, and marks it null if it has no
// name and (as established by the caller, who has already parsed the
// adjacency streams) no control or gate transistors.
func (n *Netlist) SetWire(i int, name string, pulled WireState, isNull bool) error {
	if i < 0 || i >= len(n.wireNames) {
		return errors.Errorf("wire index %d out of range [0,%d)", i, len(n.wireNames))
	}
	n.wireNames[i] = name
	n.nullWire[i] = isNull
	if !isNull {
		n.pulled[i] = pulled
		if pulled != 0 {
			n.state[i] = pulled
		} else {
			n.state[i] = Floating
		}
		if name != "" {
			n.nameIndex[name] = int32(i)
		}
	}
	return nil
}

// SetAdjacency installs the CSR control/gate adjacency built by the loader
// from the wire_ctrl_fets/wire_gates segment streams.
func (n *Netlist) SetAdjacency(controlOffsets, controlIDs, gateOffsets, gateIDs []int32) {
	n.controlOffsets = controlOffsets
	n.controlIDs = controlIDs
	n.gateOffsets = gateOffsets
	n.gateIDs = gateIDs
}

// SetFet records transistor t's three wire terminals. side1/side2/gate are
// ignored when isNull is true; all three slots are then set to the internal
// null-wire sentinel.
func (n *Netlist) SetFet(t int, side1, side2, gate int32, isNull bool) error {
	if t < 0 || t >= len(n.fetSide1) {
		return errors.Errorf("transistor index %d out of range [0,%d)", t, len(n.fetSide1))
	}
	n.nullFet[t] = isNull
	if isNull {
		n.fetSide1[t] = noWire
		n.fetSide2[t] = noWire
		n.fetGate[t] = noWire
		return nil
	}
	n.fetSide1[t] = side1
	n.fetSide2[t] = side2
	n.fetGate[t] = gate
	return nil
}

// ResolveRails locates VCC/VSS by name and pins their permanent state: VCC
// always reads HIGH and VSS always reads GROUNDED, regardless of anything
// the recalc loop later does. It must be called after all wires are set via
// SetWire.
func (n *Netlist) ResolveRails() error { return n.resolveRails() }

// ValidateAdjacency checks that the adjacency built by the caller is
// consistent with the transistors it describes: every transistor's gate
// wire lists it in gate_transistors, and every transistor's side wires list
// it in control_transistors. It must be called after SetAdjacency and
// SetFet for all transistors.
func (n *Netlist) ValidateAdjacency() error {
	for t := 0; t < len(n.fetSide1); t++ {
		ti := int32(t)
		if n.nullFet[t] {
			continue
		}
		if !containsID(n.GateTransistors(n.fetGate[t]), ti) {
			return errors.Errorf("transistor %d not listed in gate wire %d's gate_transistors", t, n.fetGate[t])
		}
		if !containsID(n.ControlTransistors(n.fetSide1[t]), ti) {
			return errors.Errorf("transistor %d not listed in side1 wire %d's control_transistors", t, n.fetSide1[t])
		}
		if !containsID(n.ControlTransistors(n.fetSide2[t]), ti) {
			return errors.Errorf("transistor %d not listed in side2 wire %d's control_transistors", t, n.fetSide2[t])
		}
	}
	return nil
}

func containsID(ids []int32, want int32) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// InitGateStates sets every transistor's gate-state bit HIGH if its gate
// wire is VCC: a transistor permanently tied on by the supply rail should
// conduct from the moment the netlist is built, before any recalc has run.
// It must be called after ResolveRails.
func (n *Netlist) InitGateStates() {
	for t := 0; t < len(n.fetSide1); t++ {
		if n.nullFet[t] {
			continue
		}
		n.fetOn[t] = n.fetGate[t] == n.vcc
	}
}
