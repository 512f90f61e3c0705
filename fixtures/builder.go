// Package fixtures provides small, hand-built netlists for a handful of
// canonical circuits (an inverter, a pass gate, a charge-retention cell, a
// capacitance tie-break, a ring oscillator), for use in tests and examples
// that would otherwise need a netlistfile.Record on disk.
package fixtures

import "github.com/wireflow/nmossim"

// builder accumulates wires and transistors in adjacency-list form, then
// flattens them into the CSR arrays nmossim.Netlist expects. It exists only
// to keep the individual fixture constructors below readable; it is not a
// general-purpose netlist editing API (see netlistfile for that boundary).
type builder struct {
	names   []string
	pulled  []nmossim.WireState
	control map[int32][]int32
	gate    map[int32][]int32

	fetGate  []int32
	fetSide1 []int32
	fetSide2 []int32

	vcc, vss int32
}

func newBuilder() *builder {
	b := &builder{control: map[int32][]int32{}, gate: map[int32][]int32{}}
	b.vcc = b.addWire("VCC", 0)
	b.vss = b.addWire("VSS", 0)
	return b
}

func (b *builder) addWire(name string, pulled nmossim.WireState) int32 {
	id := int32(len(b.names))
	b.names = append(b.names, name)
	b.pulled = append(b.pulled, pulled)
	return id
}

func (b *builder) addFet(gate, side1, side2 int32) int32 {
	id := int32(len(b.fetSide1))
	b.fetGate = append(b.fetGate, gate)
	b.fetSide1 = append(b.fetSide1, side1)
	b.fetSide2 = append(b.fetSide2, side2)
	b.control[side1] = append(b.control[side1], id)
	b.control[side2] = append(b.control[side2], id)
	b.gate[gate] = append(b.gate[gate], id)
	return id
}

func (b *builder) build() (*nmossim.Netlist, error) {
	numWires := len(b.names)
	numFets := len(b.fetSide1)
	n := nmossim.NewNetlist(numWires, numFets)

	ctrlOffsets := make([]int32, numWires+1)
	var ctrlIDs []int32
	gateOffsets := make([]int32, numWires+1)
	var gateIDs []int32

	for i := 0; i < numWires; i++ {
		wi := int32(i)
		ctrlOffsets[i] = int32(len(ctrlIDs))
		ctrlIDs = append(ctrlIDs, b.control[wi]...)
		gateOffsets[i] = int32(len(gateIDs))
		gateIDs = append(gateIDs, b.gate[wi]...)

		isNull := b.names[i] == "" && len(b.control[wi]) == 0 && len(b.gate[wi]) == 0
		if err := n.SetWire(i, b.names[i], b.pulled[i], isNull); err != nil {
			return nil, err
		}
	}
	ctrlOffsets[numWires] = int32(len(ctrlIDs))
	gateOffsets[numWires] = int32(len(gateIDs))
	n.SetAdjacency(ctrlOffsets, ctrlIDs, gateOffsets, gateIDs)

	for t := 0; t < numFets; t++ {
		if err := n.SetFet(t, b.fetSide1[t], b.fetSide2[t], b.fetGate[t], false); err != nil {
			return nil, err
		}
	}

	if err := n.ResolveRails(); err != nil {
		return nil, err
	}
	if err := n.ValidateAdjacency(); err != nil {
		return nil, err
	}
	n.InitGateStates()

	return n, nil
}
