// Package netlistfile implements the CircuitLoader collaborator: decoding a
// serialized netlist record into an *nmossim.Netlist.
//
// The on-disk byte format is treated as an implementation detail owned by
// this package rather than a fixed external contract; it adopts a portable
// binary encoding (CBOR, via github.com/fxamacker/cbor/v2) for the outer
// record, and applies segment/sentinel parsing for the variable-length
// adjacency streams within it.
package netlistfile

import (
	"github.com/blang/semver/v4"
)

// Sentinels used within the WireCtrlFets and WireGates streams, and within
// the transistor side/gate arrays.
const (
	NextCtrl uint16 = 0xFFFE // end-of-segment marker within a per-wire adjacency run
	NoWire   uint16 = 0xFFFD // null-transistor / absent-wire-reference marker
)

// FormatVersion is the record format this loader emits.
const FormatVersion = "1.0.0"

// supportedRange is the range of FormatVersion strings this loader accepts.
var supportedRange = semver.MustParseRange(">=1.0.0 <2.0.0")

// Record is the structured, serializable form of a netlist: flat per-wire
// adjacency streams with segment sentinels, and parallel per-transistor
// arrays.
type Record struct {
	FormatVersion string `cbor:"format_version"`

	NumWires int `cbor:"num_wires"`
	NumFets  int `cbor:"num_fets"`

	// WirePulled[i] is 0 (unpulled), 1 (PULLED_HIGH) or 2 (PULLED_LOW),
	// chosen to match nmossim.PulledHigh/PulledLow's bit values directly.
	WirePulled []uint8  `cbor:"wire_pulled"`
	WireNames  []string `cbor:"wire_names"`

	// WireCtrlFets and WireGates are flat streams: for wire i,
	// [count, id_0, ..., id_{count-1}, NextCtrl], concatenated for
	// i = 0..NumWires-1.
	WireCtrlFets []uint16 `cbor:"wire_ctrl_fets"`
	WireGates    []uint16 `cbor:"wire_gates"`

	FetSide1WireInds []uint16 `cbor:"fet_side1_wire_inds"`
	FetSide2WireInds []uint16 `cbor:"fet_side2_wire_inds"`
	FetGateInds      []uint16 `cbor:"fet_gate_inds"`
}

// checkVersion validates r.FormatVersion against supportedRange.
func checkVersion(v string) (semver.Version, error) {
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, err
	}
	if !supportedRange(parsed) {
		return semver.Version{}, errUnsupportedVersion(v)
	}
	return parsed, nil
}
