// Package simtest provides small test helpers shared by nmossim's and
// netlistfile's test suites: a deterministic pseudo-random pin-fuzzing
// driver and a wire-state snapshot comparator built on go-cmp.
package simtest

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wireflow/nmossim"
)

// RandomPulses drives iterations pseudo-random pin flips across wires,
// recalculating after each one, and returns the snapshot taken after every
// settle. It is adapted from a random-stimulus fuzzing technique, applied
// here to pulled-state fuzzing instead of boolean pin fuzzing: useful for
// checking determinism and idempotence, since a fixed seed reproduces the
// exact same pulse sequence on both sides of a diff.
func RandomPulses(t *testing.T, f *nmossim.SimulatorFacade, wires []int32, iterations int, seed int64) [][]nmossim.WireState {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	snapshots := make([][]nmossim.WireState, 0, iterations)
	for i := 0; i < iterations; i++ {
		w := wires[rng.Intn(len(wires))]
		high := rng.Intn(2) == 0
		f.SetPulled(w, high)
		if err := f.RecalcWireList([]int32{w}, i+1); err != nil {
			t.Fatalf("recalc after pulse %d on wire %d: %v", i, w, err)
		}
		snapshots = append(snapshots, f.WiresState())
	}
	return snapshots
}

// AssertSnapshotEqual fails the test, with a readable diff, if got != want.
func AssertSnapshotEqual(t *testing.T, got, want []nmossim.WireState) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wire state snapshot mismatch (-want +got):\n%s", diff)
	}
}
