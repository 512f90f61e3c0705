package fixtures

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/wireflow/nmossim"
)

// Inverter returns a single NMOS inverter. A is the input (pulled low), OUT
// is the inverted output (pulled high, modeling a weak pull-up device rather
// than a real depletion load). Driving A high should settle OUT to GROUNDED;
// releasing A should return OUT to its PULLED_HIGH pull.
func Inverter() (*nmossim.Netlist, error) {
	b := newBuilder()
	a := b.addWire("A", nmossim.PulledLow)
	out := b.addWire("OUT", nmossim.PulledHigh)
	b.addFet(a, out, b.vss)
	return b.build()
}

// PassGate returns a single NMOS transmission gate between IN (pulled high)
// and OUT (pulled low), controlled by EN (pulled low, i.e. initially off).
// Turning EN high joins IN and OUT into one conducting group with no rail in
// it, so both adopt a single pulled value: the pull of whichever member the
// calculator visits last.
func PassGate() (*nmossim.Netlist, error) {
	b := newBuilder()
	in := b.addWire("IN", nmossim.PulledHigh)
	out := b.addWire("OUT", nmossim.PulledLow)
	en := b.addWire("EN", nmossim.PulledLow)
	b.addFet(en, in, out)
	return b.build()
}

// ChargeRetentionCell returns an unpulled wire D reachable through two
// independently-gated NMOS transistors, one to VCC (via G1) and one to VSS
// (via G2), the classic case where a wire's own parasitic capacitance is
// what keeps its last-driven value once both paths turn off.
//
// Turning G1 on settles D HIGH; turning G1 off floats it FLOATING_HIGH
// (charge retention). Turning G2 on instead settles D GROUNDED; turning G2
// off floats it FLOATING_LOW.
func ChargeRetentionCell() (*nmossim.Netlist, error) {
	b := newBuilder()
	d := b.addWire("D", 0)
	g1 := b.addWire("G1", nmossim.PulledLow)
	g2 := b.addWire("G2", nmossim.PulledLow)
	b.addFet(g1, d, b.vcc)
	b.addFet(g2, d, b.vss)
	return b.build()
}

// CapacitanceTieBreak returns two already-formed floating regions, R_hi
// (H0..H3, state FLOATING_HIGH, heavier total control+gate transistor count)
// and R_lo (L0,L1, state FLOATING_LOW, lighter count), joined by a
// transistor gated by JG. Turning JG high joins the regions into a single
// group with no rail and no pulled member, so the calculator's
// capacitance-weighted tie-break decides the outcome; R_hi's larger weight
// should win and every member of the joined group should settle
// FLOATING_HIGH.
//
// SINK1/SINK2 exist only so each H/L wire can be given extra gate
// transistors to inflate its capacitance weight; their own state is not
// asserted on by callers.
func CapacitanceTieBreak() (*nmossim.Netlist, error) {
	b := newBuilder()
	sink1 := b.addWire("SINK1", 0)
	sink2 := b.addWire("SINK2", 0)

	hi := make([]int32, 4)
	for i := range hi {
		hi[i] = b.addWire(fmt.Sprintf("H%d", i), 0)
	}
	lo := make([]int32, 2)
	for i := range lo {
		lo[i] = b.addWire(fmt.Sprintf("L%d", i), 0)
	}
	jg := b.addWire("JG", nmossim.PulledLow)

	// Already-on internal wiring so R_hi and R_lo are each one connected
	// region before the join (gate=VCC makes InitGateStates turn these on).
	for i := 0; i < len(hi)-1; i++ {
		b.addFet(b.vcc, hi[i], hi[i+1])
	}
	for i := 0; i < len(lo)-1; i++ {
		b.addFet(b.vcc, lo[i], lo[i+1])
	}

	// Inflate capacitance weight: two dummy gate transistors per H wire,
	// one per L wire, so R_hi's total is well above R_lo's.
	for _, h := range hi {
		b.addFet(h, sink1, sink2)
		b.addFet(h, sink1, sink2)
	}
	for _, l := range lo {
		b.addFet(l, sink1, sink2)
	}

	// The join, initially off.
	b.addFet(jg, hi[0], lo[0])

	n, err := b.build()
	if err != nil {
		return nil, err
	}
	for _, h := range hi {
		n.SetState(h, nmossim.FloatingHigh)
	}
	for _, l := range lo {
		n.SetState(l, nmossim.FloatingLow)
	}
	return n, nil
}

// RingOscillator returns stages NMOS inverters chained head to tail, each
// output pulled high the way Inverter's is. With an odd number of stages
// there is no assignment of the ring's wires that satisfies every inverter
// simultaneously, so a recalc that reaches the unsettled stage runs until
// StepLimit. RecalcAll (halfClockCount 0) swallows that; a recalc with
// halfClockCount > 0 reports DidNotConverge.
func RingOscillator(stages int) (*nmossim.Netlist, error) {
	if stages < 3 || stages%2 == 0 {
		return nil, errors.Errorf("fixtures: RingOscillator needs an odd stage count >= 3, got %d", stages)
	}
	b := newBuilder()
	w := make([]int32, stages)
	for i := range w {
		w[i] = b.addWire(fmt.Sprintf("W%d", i), nmossim.PulledHigh)
	}
	for i := range w {
		next := w[(i+1)%stages]
		b.addFet(w[i], next, b.vss)
	}
	return b.build()
}
