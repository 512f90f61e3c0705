package nmossim

import "github.com/wireflow/nmossim/simerr"

// SimulatorFacade is the thin public surface a chip driver uses: pin an
// input high or low, trigger a recalc by wire name or index, and read wire
// state back out. It owns a Netlist and the WireCalculator that solves it.
//
// SimulatorFacade is not safe for concurrent use; the caller must sequence
// pin writes and recalc/read calls with respect to each other.
type SimulatorFacade struct {
	nl   *Netlist
	calc *WireCalculator
}

// NewSimulatorFacade wraps an already-loaded Netlist.
func NewSimulatorFacade(nl *Netlist) *SimulatorFacade {
	return &SimulatorFacade{nl: nl, calc: NewWireCalculator(nl)}
}

// Netlist returns the underlying netlist, e.g. so a caller can inspect
// topology that the facade doesn't otherwise expose.
func (f *SimulatorFacade) Netlist() *Netlist { return f.nl }

// Counters returns the calculator's diagnostic counters.
func (f *SimulatorFacade) Counters() (addToGroup, addTransistor, recalculated uint64) {
	return f.calc.NumAddWireToGroup, f.calc.NumAddWireTransistor, f.calc.NumWiresRecalculated
}

// SetPulled sets wire i's pulled and state fields to PulledHigh or
// PulledLow depending on high. It does not trigger a recalc.
func (f *SimulatorFacade) SetPulled(i int32, high bool) {
	s := PulledLow
	if high {
		s = PulledHigh
	}
	f.nl.SetPulled(i, s)
	f.nl.SetState(i, s)
}

// SetHigh is SetPulled(i, true).
func (f *SimulatorFacade) SetHigh(i int32) { f.SetPulled(i, true) }

// SetLow is SetPulled(i, false).
func (f *SimulatorFacade) SetLow(i int32) { f.SetPulled(i, false) }

// SetHighByName and SetLowByName are the name-keyed variants of SetHigh and
// SetLow. They return simerr.UnknownWireError if name is not in the
// netlist.
func (f *SimulatorFacade) SetHighByName(name string) error { return f.setPulledByName(name, true) }
func (f *SimulatorFacade) SetLowByName(name string) error  { return f.setPulledByName(name, false) }

func (f *SimulatorFacade) setPulledByName(name string, high bool) error {
	i, ok := f.nl.WireByName(name)
	if !ok {
		return simerr.NewUnknownWire(name)
	}
	f.SetPulled(i, high)
	return nil
}

// IsHigh reports whether wire i's state is one of HIGH, PULLED_HIGH,
// FLOATING_HIGH.
func (f *SimulatorFacade) IsHigh(i int32) bool { return f.nl.State(i).IsAnyHigh() }

// IsLow reports whether wire i's state is one of GROUNDED, PULLED_LOW,
// FLOATING_LOW.
func (f *SimulatorFacade) IsLow(i int32) bool { return f.nl.State(i).IsAnyLow() }

// RecalcNamedWire resolves name to a wire index and recalculates from it.
func (f *SimulatorFacade) RecalcNamedWire(name string, halfClockCount int) error {
	i, ok := f.nl.WireByName(name)
	if !ok {
		return simerr.NewUnknownWire(name)
	}
	return f.calc.RecalcWires([]int32{i}, halfClockCount)
}

// RecalcWireList recalculates from the given seed wire indices.
func (f *SimulatorFacade) RecalcWireList(seed []int32, halfClockCount int) error {
	return f.calc.RecalcWires(seed, halfClockCount)
}

// RecalcAll settles the whole netlist. Used for the initial settle right
// after load.
func (f *SimulatorFacade) RecalcAll() error { return f.calc.RecalcAll() }

// WiresState returns a snapshot copy of every wire's current state.
func (f *SimulatorFacade) WiresState() []WireState { return f.nl.Snapshot() }
