package nmossim

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/wireflow/nmossim/simerr"
	"github.com/wireflow/nmossim/simlog"
)

// StepLimit bounds the number of work-list passes a single recalc call will
// run before giving up. It exists to surface modelling bugs (a netlist with
// no stable point, such as a ring of an odd number of inverters), not to
// honour external cancellation.
const StepLimit = 400

// WireCalculator is the switch-network solver: given a set of wires that may
// have changed, it iterates group resolution and transistor-gate flips to a
// fixed point. It holds exclusive, single-threaded access to a Netlist's
// mutable fields (State and transistor gate-state) for the duration of a
// recalc call.
type WireCalculator struct {
	nl *Netlist

	// current group under construction by buildGroup.
	groupMember *bitset.BitSet
	groupIDs    []int32
	stackBuf    []int32 // reusable explicit-stack scratch space for buildGroup

	// two work lists, ping-ponged each pass. curMarks/nextMarks dedup
	// enqueues within a single work list.
	curList   []int32
	curMarks  *bitset.BitSet
	nextList  []int32
	nextMarks *bitset.BitSet

	// diagnostic counters, useful for profiling how much work a recalc call
	// actually did.
	NumAddWireToGroup    uint64
	NumAddWireTransistor uint64
	NumWiresRecalculated uint64
}

// NewWireCalculator builds a calculator over nl. The calculator retains a
// reference to nl and mutates its State and transistor gate-state in place.
func NewWireCalculator(nl *Netlist) *WireCalculator {
	n := uint(nl.NumWires())
	return &WireCalculator{
		nl:          nl,
		groupMember: bitset.New(n),
		curMarks:    bitset.New(n),
		nextMarks:   bitset.New(n),
	}
}

// RecalcWires propagates a fixed point starting from seed, a non-empty set
// of wire indices that may have changed. halfClockCount is a diagnostic
// counter: convergence failure is only raised as an error once
// halfClockCount > 0, since the very first settle after a fresh netlist load
// commonly needs more than one pass to reach steady state and shouldn't be
// treated as a modelling failure.
func (wc *WireCalculator) RecalcWires(seed []int32, halfClockCount int) error {
	if len(seed) == 0 {
		return simerr.NewMalformedNetlist("recalc_wires: seed set must not be empty")
	}
	return wc.recalcIterations(seed, halfClockCount)
}

// RecalcAll seeds the solver with every non-null wire index. It is used only
// for the initial settle right after a netlist is loaded, hence
// halfClockCount is always 0.
func (wc *WireCalculator) RecalcAll() error {
	seed := make([]int32, 0, wc.nl.NumWires())
	for i := 0; i < wc.nl.NumWires(); i++ {
		w := int32(i)
		if wc.nl.IsNullWire(w) {
			continue
		}
		seed = append(seed, w)
	}
	return wc.recalcIterations(seed, 0)
}

// recalcIterations drains curList, swapping in nextList (built up by
// doWireRecalc's transistor flips) at the end of every pass, until the work
// list empties or StepLimit passes have run.
func (wc *WireCalculator) recalcIterations(seed []int32, halfClockCount int) error {
	wc.curList = wc.curList[:0]
	wc.curMarks.ClearAll()
	wc.nextList = wc.nextList[:0]
	wc.nextMarks.ClearAll()

	for _, w := range seed {
		if wc.nl.IsNullWire(w) {
			continue
		}
		if wc.curMarks.Test(uint(w)) {
			continue
		}
		wc.curMarks.Set(uint(w))
		wc.curList = append(wc.curList, w)
	}

	step := 0
	for {
		if len(wc.curList) == 0 {
			break
		}
		for _, w := range wc.curList {
			// w may have been (re)enqueued into next by an earlier wire in
			// this same pass; clearing here allows it to re-enter cleanly.
			wc.nextMarks.Clear(uint(w))
			wc.doWireRecalc(w)
			wc.curMarks.Clear(uint(w))
		}
		wc.curList, wc.nextList = wc.nextList, wc.curList[:0]
		wc.curMarks, wc.nextMarks = wc.nextMarks, wc.curMarks
		step++
		if step >= StepLimit {
			break
		}
	}

	if step >= StepLimit && len(wc.curList) > 0 {
		if halfClockCount > 0 {
			simlog.Logger().Warn().
				Int("steps", step).
				Int("pending", len(wc.curList)).
				Msg("wire calculator did not converge")
			return simerr.NewDidNotConverge(step, len(wc.curList))
		}
		simlog.Logger().Debug().
			Int("steps", step).
			Int("pending", len(wc.curList)).
			Msg("wire calculator did not converge on initial settle; keeping partial state")
	}
	return nil
}

// doWireRecalc resolves wire w's conducting group to a new value, writes it
// back to every non-rail member, and flips any gate transistor whose driving
// wire just crossed the high/low threshold.
func (wc *WireCalculator) doWireRecalc(w int32) {
	nl := wc.nl
	if w == nl.VCC() || w == nl.GND() {
		return
	}

	wc.buildGroup(w)
	newValue := wc.resolveGroupValue()
	newHigh := newValue.IsAnyHigh()
	wc.NumWiresRecalculated++

	for _, gw := range wc.groupIDs {
		if gw == nl.VCC() || gw == nl.GND() {
			continue
		}
		nl.SetState(gw, newValue)
		for _, g := range nl.GateTransistors(gw) {
			switch {
			case newHigh && !nl.GateState(g):
				nl.SetGateState(g, true)
				wc.enqueueNext(nl.Side1(g))
				wc.enqueueNext(nl.Side2(g))
			case !newHigh && nl.GateState(g):
				nl.SetGateState(g, false)
				wc.floatWire(nl.Side1(g))
				wc.floatWire(nl.Side2(g))
				wc.enqueueNext(nl.Side1(g))
				wc.enqueueNext(nl.Side2(g))
			}
		}
	}
}

// floatWire converts a wire that just lost its conducting path to its
// residual, isolated state: a pulled wire reverts to its pull, and a wire
// that was driven reverts to the floating equivalent of whichever rail it
// last saw, modelling the charge left behind on its parasitic capacitance.
// It leaves the rails themselves untouched: a transistor's channel can sit
// directly on VCC or VSS, and turning that transistor off must never make
// the rail itself look "floating".
//
// The two checks below are intentionally separate ifs, not an if/else, both
// reading the same pre-transition state; they're mutually exclusive in
// practice, so which one is written second doesn't change behavior, but
// GROUNDED/PULLED_LOW is checked first and HIGH/PULLED_HIGH second so that a
// future change adding real overlap would resolve toward FLOATING_HIGH.
func (wc *WireCalculator) floatWire(i int32) {
	nl := wc.nl
	if i == nl.VCC() || i == nl.GND() {
		return
	}
	switch nl.Pulled(i) {
	case PulledHigh:
		nl.SetState(i, PulledHigh)
		return
	case PulledLow:
		nl.SetState(i, PulledLow)
		return
	}
	st := nl.State(i)
	if st == Grounded || st == PulledLow {
		nl.SetState(i, FloatingLow)
	}
	if st == High || st == PulledHigh {
		nl.SetState(i, FloatingHigh)
	}
}

// enqueueNext adds w to the next pass's work list, deduped by nextMarks.
func (wc *WireCalculator) enqueueNext(w int32) {
	if wc.nl.IsNullWire(w) {
		return
	}
	if wc.nextMarks.Test(uint(w)) {
		return
	}
	wc.nextMarks.Set(uint(w))
	wc.nextList = append(wc.nextList, w)
}

// buildGroup discovers every wire reachable from seed through a chain of
// currently-conducting transistors: the maximal connected component that
// must share a single logical value. It's a flood fill written with an
// explicit stack rather than recursion so that groups spanning hundreds of
// wires don't blow the Go stack.
func (wc *WireCalculator) buildGroup(seed int32) {
	wc.resetGroup()
	wc.pushGroup(seed)
	if seed == wc.nl.VCC() || seed == wc.nl.GND() {
		return
	}

	stack := append(wc.stackBuf[:0], seed)

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, t := range wc.nl.ControlTransistors(w) {
			wc.NumAddWireTransistor++
			if !wc.nl.GateState(t) {
				continue
			}
			other := wc.nl.OtherSide(t, w)
			if other == noWire {
				continue
			}
			if other == wc.nl.VCC() || other == wc.nl.GND() {
				if !wc.groupMember.Test(uint(other)) {
					wc.pushGroup(other)
				}
				continue
			}
			if wc.groupMember.Test(uint(other)) {
				continue
			}
			wc.pushGroup(other)
			stack = append(stack, other)
		}
	}
	wc.stackBuf = stack
}

func (wc *WireCalculator) resetGroup() {
	for _, w := range wc.groupIDs {
		wc.groupMember.Clear(uint(w))
	}
	wc.groupIDs = wc.groupIDs[:0]
}

func (wc *WireCalculator) pushGroup(w int32) {
	wc.groupMember.Set(uint(w))
	wc.groupIDs = append(wc.groupIDs, w)
	wc.NumAddWireToGroup++
}

// resolveGroupValue resolves the current group (wc.groupIDs) to the single
// logical state its non-rail members adopt: a path to ground wins outright,
// then a path to VCC, then whichever pull was seen last, and only when the
// group is a mix of isolated FLOATING_HIGH and FLOATING_LOW wires with no
// pull does the outcome fall to a charge-sharing estimate — the side whose
// wires have the larger total CapacitanceWeight keeps its value, with a tie
// going to FLOATING_HIGH.
func (wc *WireCalculator) resolveGroupValue() WireState {
	nl := wc.nl

	for _, w := range wc.groupIDs {
		if w == nl.GND() {
			return Grounded
		}
	}
	for _, w := range wc.groupIDs {
		if w == nl.VCC() {
			return High
		}
	}

	value := nl.State(wc.groupIDs[0])
	sawFL, sawFH := false, false
	for _, w := range wc.groupIDs {
		st := nl.State(w)
		if st == FloatingLow {
			sawFL = true
		}
		if st == FloatingHigh {
			sawFH = true
		}
		switch nl.Pulled(w) {
		case PulledHigh:
			value = PulledHigh
		case PulledLow:
			value = PulledLow
		}
	}

	if (value == FloatingLow || value == FloatingHigh) && sawFL && sawFH {
		var capHigh, capLow int
		for _, w := range wc.groupIDs {
			switch nl.State(w) {
			case FloatingHigh:
				capHigh += nl.CapacitanceWeight(w)
			case FloatingLow:
				capLow += nl.CapacitanceWeight(w)
			}
		}
		if capHigh >= capLow {
			return FloatingHigh
		}
		return FloatingLow
	}

	return value
}
