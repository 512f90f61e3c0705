package nmossim_test

import (
	"errors"
	"testing"

	"github.com/wireflow/nmossim"
	"github.com/wireflow/nmossim/fixtures"
	"github.com/wireflow/nmossim/simerr"
	"github.com/wireflow/nmossim/simtest"
)

func settle(t *testing.T, f *nmossim.SimulatorFacade) {
	t.Helper()
	if err := f.RecalcAll(); err != nil {
		t.Fatalf("RecalcAll: %v", err)
	}
}

// TestInverterDrivesOutputLow checks that driving A high grounds OUT, and
// that releasing A returns OUT to its PULLED_HIGH pull.
func TestInverterDrivesOutputLow(t *testing.T) {
	nl, err := fixtures.Inverter()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	settle(t, f)

	a, _ := nl.WireByName("A")
	out, _ := nl.WireByName("OUT")

	if got := nl.State(out); got != nmossim.PulledHigh {
		t.Fatalf("initial OUT state = %v, want PULLED_HIGH", got)
	}

	if err := f.SetHighByName("A"); err != nil {
		t.Fatal(err)
	}
	if err := f.RecalcNamedWire("A", 1); err != nil {
		t.Fatalf("recalc after driving A high: %v", err)
	}
	if got := nl.State(out); got != nmossim.Grounded {
		t.Fatalf("OUT state after A high = %v, want GROUNDED", got)
	}

	if err := f.SetLowByName("A"); err != nil {
		t.Fatal(err)
	}
	if err := f.RecalcNamedWire("A", 2); err != nil {
		t.Fatalf("recalc after releasing A: %v", err)
	}
	if got := nl.State(out); got != nmossim.PulledHigh {
		t.Fatalf("OUT state after A released = %v, want PULLED_HIGH", got)
	}
	_ = a
}

// TestPassGateEqualizesJoinedWires checks that turning EN on joins IN and
// OUT into one group that adopts a single pulled value. The group holds no
// rail, only IN's PULLED_HIGH and OUT's PULLED_LOW pulls, and the pull of
// the last member visited decides, so either pull is accepted.
func TestPassGateEqualizesJoinedWires(t *testing.T) {
	nl, err := fixtures.PassGate()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	settle(t, f)

	out, _ := nl.WireByName("OUT")
	if got := nl.State(out); got != nmossim.PulledLow {
		t.Fatalf("initial OUT state = %v, want PULLED_LOW", got)
	}

	in, _ := nl.WireByName("IN")
	if err := f.SetHighByName("EN"); err != nil {
		t.Fatal(err)
	}
	if err := f.RecalcNamedWire("EN", 1); err != nil {
		t.Fatalf("recalc after EN high: %v", err)
	}
	// Once EN turns the gate on, IN and OUT join into a single group and
	// must resolve to the same value; neither wire's own pull can leave it
	// disagreeing with the wire it's now conducting to.
	if got, want := nl.State(out), nl.State(in); got != want {
		t.Fatalf("OUT state = %v, IN state = %v; a conducting pass gate must equalize them", got, want)
	}
	if got := nl.State(out); got != nmossim.PulledHigh && got != nmossim.PulledLow {
		t.Fatalf("OUT state after join = %v, want PULLED_HIGH or PULLED_LOW", got)
	}
}

// TestChargeRetentionCellRetainsLastDrivenValue checks that toggling each
// gated path in turn drives D and then lets it float, retaining the last
// driven polarity.
func TestChargeRetentionCellRetainsLastDrivenValue(t *testing.T) {
	nl, err := fixtures.ChargeRetentionCell()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	settle(t, f)
	d, _ := nl.WireByName("D")

	step := 0
	next := func() int { step++; return step }

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(f.SetHighByName("G1"))
	must(f.RecalcNamedWire("G1", next()))
	if got := nl.State(d); got != nmossim.High {
		t.Fatalf("D after G1 on = %v, want HIGH", got)
	}

	must(f.SetLowByName("G1"))
	must(f.RecalcNamedWire("G1", next()))
	if got := nl.State(d); got != nmossim.FloatingHigh {
		t.Fatalf("D after G1 off = %v, want FLOATING_HIGH (charge retention)", got)
	}

	must(f.SetHighByName("G2"))
	must(f.RecalcNamedWire("G2", next()))
	if got := nl.State(d); got != nmossim.Grounded {
		t.Fatalf("D after G2 on = %v, want GROUNDED", got)
	}

	must(f.SetLowByName("G2"))
	must(f.RecalcNamedWire("G2", next()))
	if got := nl.State(d); got != nmossim.FloatingLow {
		t.Fatalf("D after G2 off = %v, want FLOATING_LOW", got)
	}
}

// TestCapacitanceTieBreakFavorsLargerRegion checks that joining a 4-wire
// FLOATING_HIGH region to a 2-wire FLOATING_LOW region settles the whole
// union FLOATING_HIGH.
func TestCapacitanceTieBreakFavorsLargerRegion(t *testing.T) {
	nl, err := fixtures.CapacitanceTieBreak()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)

	if err := f.SetHighByName("JG"); err != nil {
		t.Fatal(err)
	}
	if err := f.RecalcNamedWire("JG", 1); err != nil {
		t.Fatalf("recalc after joining regions: %v", err)
	}

	for _, name := range []string{"H0", "H1", "H2", "H3", "L0", "L1"} {
		w, ok := nl.WireByName(name)
		if !ok {
			t.Fatalf("fixture is missing wire %q", name)
		}
		if got := nl.State(w); got != nmossim.FloatingHigh {
			t.Errorf("%s state after join = %v, want FLOATING_HIGH", name, got)
		}
	}
}

// TestRingOscillatorDoesNotConverge checks that an odd-length ring
// oscillator, which has no stable point, reports DidNotConverge once
// halfClockCount is nonzero.
func TestRingOscillatorDoesNotConverge(t *testing.T) {
	nl, err := fixtures.RingOscillator(5)
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)

	// The initial settle (halfClockCount == 0) must not surface an error:
	// non-convergence is swallowed on the very first settle.
	if err := f.RecalcAll(); err != nil {
		t.Fatalf("initial RecalcAll on a non-converging ring returned an error: %v", err)
	}

	// The swallowed settle stops mid-cycle and drops its pending work, so a
	// single ring wire may already agree with its neighbours; seeding the
	// whole ring makes sure the unsettled stage is recalculated.
	seed := make([]int32, 0, 5)
	for _, name := range []string{"W0", "W1", "W2", "W3", "W4"} {
		w, _ := nl.WireByName(name)
		seed = append(seed, w)
	}
	err = f.RecalcWireList(seed, 1)
	if err == nil {
		t.Fatal("expected DidNotConverge once halfClockCount > 0")
	}
	var dnc *simerr.DidNotConvergeError
	if !errors.As(err, &dnc) {
		t.Fatalf("error = %v, want a DidNotConvergeError", err)
	}
	if !errors.Is(err, simerr.ErrDidNotConverge) {
		t.Fatal("errors.Is(err, simerr.ErrDidNotConverge) = false")
	}
}

// Determinism: settling twice from the same starting point produces
// identical wire-state snapshots.
func TestDeterminism(t *testing.T) {
	build := func() (*nmossim.Netlist, *nmossim.SimulatorFacade) {
		nl, err := fixtures.PassGate()
		if err != nil {
			t.Fatal(err)
		}
		f := nmossim.NewSimulatorFacade(nl)
		settle(t, f)
		return nl, f
	}

	nl1, f1 := build()
	nl2, f2 := build()

	wires := []int32{}
	for _, name := range []string{"IN", "OUT", "EN"} {
		w, _ := nl1.WireByName(name)
		wires = append(wires, w)
	}

	snaps1 := simtest.RandomPulses(t, f1, wires, 25, 42)
	snaps2 := simtest.RandomPulses(t, f2, wires, 25, 42)

	for i := range snaps1 {
		simtest.AssertSnapshotEqual(t, snaps2[i], snaps1[i])
	}
	_ = nl2
}

// Idempotence: recalculating from a wire that has not changed leaves the
// snapshot untouched.
func TestResettleIdempotence(t *testing.T) {
	nl, err := fixtures.Inverter()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	settle(t, f)

	before := f.WiresState()
	if err := f.RecalcNamedWire("OUT", 1); err != nil {
		t.Fatalf("re-settle recalc: %v", err)
	}
	simtest.AssertSnapshotEqual(t, f.WiresState(), before)
}

// Rail stability: VCC and VSS never change state across any sequence of
// pin writes and recalcs.
func TestRailsAreStable(t *testing.T) {
	nl, err := fixtures.PassGate()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	settle(t, f)

	wires := []int32{}
	for _, name := range []string{"IN", "OUT", "EN"} {
		w, _ := nl.WireByName(name)
		wires = append(wires, w)
	}
	simtest.RandomPulses(t, f, wires, 40, 7)

	if got := nl.State(nl.VCC()); got != nmossim.High {
		t.Fatalf("VCC state drifted to %v", got)
	}
	if got := nl.State(nl.GND()); got != nmossim.Grounded {
		t.Fatalf("GND state drifted to %v", got)
	}
}
