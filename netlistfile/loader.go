package netlistfile

import (
	"bytes"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/wireflow/nmossim"
	"github.com/wireflow/nmossim/simerr"
)

func errUnsupportedVersion(v string) error {
	return simerr.NewMalformedNetlist("unsupported netlist format version %q (supported: %s)", v, ">=1.0.0 <2.0.0")
}

// Load decodes a CBOR-serialized Record from r and builds a fully
// initialized *nmossim.Netlist from it: CSR adjacency parsed from the
// segment/sentinel streams, rail wires resolved, transistor gate-state
// initialized (any transistor permanently tied on by VCC starts conducting),
// and wire pull/state seeded from WirePulled.
//
// It does not run the initial settle; callers do that explicitly, via
// SimulatorFacade.RecalcAll, once the netlist is built.
func Load(r io.Reader) (*nmossim.Netlist, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "netlistfile: read")
	}
	var rec Record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, simerr.WrapMalformedNetlist(err, "netlistfile: cbor decode")
	}
	return build(&rec)
}

// Save serializes n back into a Record and CBOR-encodes it to w. It is not
// on the solver's hot path; it exists for round-trip tests and for tooling
// built on top of this package.
func Save(w io.Writer, n *nmossim.Netlist) error {
	rec, err := toRecord(n)
	if err != nil {
		return err
	}
	data, err := cbor.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "netlistfile: cbor encode")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "netlistfile: write")
}

func build(rec *Record) (*nmossim.Netlist, error) {
	if _, err := checkVersion(rec.FormatVersion); err != nil {
		return nil, errUnsupportedVersion(rec.FormatVersion)
	}
	if rec.NumWires != len(rec.WireNames) || rec.NumWires != len(rec.WirePulled) {
		return nil, simerr.NewMalformedNetlist("num_wires=%d does not match wire_names/wire_pulled length", rec.NumWires)
	}
	if rec.NumFets != len(rec.FetSide1WireInds) || rec.NumFets != len(rec.FetSide2WireInds) || rec.NumFets != len(rec.FetGateInds) {
		return nil, simerr.NewMalformedNetlist("num_fets=%d does not match fet array lengths", rec.NumFets)
	}

	ctrlSegs, err := parseSegments(rec.WireCtrlFets, rec.NumWires)
	if err != nil {
		return nil, simerr.WrapMalformedNetlist(err, "wire_ctrl_fets")
	}
	gateSegs, err := parseSegments(rec.WireGates, rec.NumWires)
	if err != nil {
		return nil, simerr.WrapMalformedNetlist(err, "wire_gates")
	}

	n := nmossim.NewNetlist(rec.NumWires, rec.NumFets)

	// Wires: names, pulled/state, null detection, CSR control adjacency.
	ctrlOffsets := make([]int32, rec.NumWires+1)
	var ctrlIDs []int32
	gateOffsets := make([]int32, rec.NumWires+1)
	var gateIDs []int32

	for i := 0; i < rec.NumWires; i++ {
		ctrlOffsets[i] = int32(len(ctrlIDs))
		for _, id := range ctrlSegs[i] {
			ctrlIDs = append(ctrlIDs, int32(id))
		}
		gateOffsets[i] = int32(len(gateIDs))
		for _, id := range gateSegs[i] {
			gateIDs = append(gateIDs, int32(id))
		}

		isNull := rec.WireNames[i] == "" && len(ctrlSegs[i]) == 0 && len(gateSegs[i]) == 0
		if err := n.SetWire(i, rec.WireNames[i], nmossim.WireState(rec.WirePulled[i]), isNull); err != nil {
			return nil, simerr.WrapMalformedNetlist(err, "wire_names/wire_pulled")
		}
	}
	ctrlOffsets[rec.NumWires] = int32(len(ctrlIDs))
	gateOffsets[rec.NumWires] = int32(len(gateIDs))
	n.SetAdjacency(ctrlOffsets, ctrlIDs, gateOffsets, gateIDs)

	// Transistors.
	for t := 0; t < rec.NumFets; t++ {
		s1, s2, g := rec.FetSide1WireInds[t], rec.FetSide2WireInds[t], rec.FetGateInds[t]
		isNull := s1 == NoWire
		if isNull && (s2 != NoWire || g != NoWire) {
			return nil, simerr.NewMalformedNetlist("transistor %d has side1==NO_WIRE but side2/gate is not NO_WIRE", t)
		}
		if err := n.SetFet(t, int32(s1), int32(s2), int32(g), isNull); err != nil {
			return nil, simerr.WrapMalformedNetlist(err, "fet_side1_wire_inds/fet_side2_wire_inds/fet_gate_inds")
		}
	}

	if err := n.ResolveRails(); err != nil {
		return nil, simerr.WrapMalformedNetlist(err, "rail resolution")
	}

	if err := n.ValidateAdjacency(); err != nil {
		return nil, simerr.WrapMalformedNetlist(err, "adjacency validation")
	}

	n.InitGateStates()

	return n, nil
}

// parseSegments walks a flat [count, id_0..id_{count-1}, NextCtrl]-encoded
// stream for numWires wires and returns each wire's id list.
func parseSegments(stream []uint16, numWires int) ([][]uint16, error) {
	out := make([][]uint16, numWires)
	pos := 0
	for i := 0; i < numWires; i++ {
		if pos >= len(stream) {
			return nil, errors.Errorf("stream ends before segment for wire %d", i)
		}
		count := int(stream[pos])
		pos++
		if pos+count > len(stream) {
			return nil, errors.Errorf("segment for wire %d claims %d ids but stream is too short", i, count)
		}
		ids := make([]uint16, count)
		copy(ids, stream[pos:pos+count])
		pos += count
		if pos >= len(stream) || stream[pos] != NextCtrl {
			return nil, errors.Errorf("missing NEXT_CTRL sentinel after wire %d's segment", i)
		}
		pos++
		out[i] = ids
	}
	if pos != len(stream) {
		return nil, errors.Errorf("%d trailing values after the last wire's segment", len(stream)-pos)
	}
	return out, nil
}

func toRecord(n *nmossim.Netlist) (*Record, error) {
	numWires := n.NumWires()
	numFets := n.NumFets()

	rec := &Record{
		FormatVersion: FormatVersion,
		NumWires:      numWires,
		NumFets:       numFets,
		WirePulled:    make([]uint8, numWires),
		WireNames:     make([]string, numWires),
	}

	for i := 0; i < numWires; i++ {
		wi := int32(i)
		rec.WireNames[i] = n.WireName(wi)
		rec.WirePulled[i] = uint8(n.Pulled(wi))

		ctrl := n.ControlTransistors(wi)
		rec.WireCtrlFets = append(rec.WireCtrlFets, uint16(len(ctrl)))
		for _, id := range ctrl {
			rec.WireCtrlFets = append(rec.WireCtrlFets, uint16(id))
		}
		rec.WireCtrlFets = append(rec.WireCtrlFets, NextCtrl)

		gates := n.GateTransistors(wi)
		rec.WireGates = append(rec.WireGates, uint16(len(gates)))
		for _, id := range gates {
			rec.WireGates = append(rec.WireGates, uint16(id))
		}
		rec.WireGates = append(rec.WireGates, NextCtrl)
	}

	rec.FetSide1WireInds = make([]uint16, numFets)
	rec.FetSide2WireInds = make([]uint16, numFets)
	rec.FetGateInds = make([]uint16, numFets)
	for t := 0; t < numFets; t++ {
		ti := int32(t)
		if n.IsNullFet(ti) {
			rec.FetSide1WireInds[t] = NoWire
			rec.FetSide2WireInds[t] = NoWire
			rec.FetGateInds[t] = NoWire
			continue
		}
		rec.FetSide1WireInds[t] = uint16(n.Side1(ti))
		rec.FetSide2WireInds[t] = uint16(n.Side2(ti))
		rec.FetGateInds[t] = uint16(n.Gate(ti))
	}

	return rec, nil
}

// roundTrip is a small helper used in tests to exercise Save followed by
// Load without touching a real file.
func roundTrip(n *nmossim.Netlist) (*nmossim.Netlist, error) {
	var buf bytes.Buffer
	if err := Save(&buf, n); err != nil {
		return nil, err
	}
	return Load(&buf)
}
