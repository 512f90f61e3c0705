package nmossim_test

import (
	"errors"
	"testing"

	"github.com/wireflow/nmossim"
	"github.com/wireflow/nmossim/fixtures"
	"github.com/wireflow/nmossim/simerr"
)

func TestFacadeUnknownWireByName(t *testing.T) {
	nl, err := fixtures.Inverter()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)

	if err := f.SetHighByName("NOPE"); !errors.Is(err, simerr.ErrUnknownWire) {
		t.Fatalf("SetHighByName(unknown) error = %v, want ErrUnknownWire", err)
	}
	if err := f.RecalcNamedWire("NOPE", 1); !errors.Is(err, simerr.ErrUnknownWire) {
		t.Fatalf("RecalcNamedWire(unknown) error = %v, want ErrUnknownWire", err)
	}
}

func TestFacadeIsHighIsLow(t *testing.T) {
	nl, err := fixtures.Inverter()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	if err := f.RecalcAll(); err != nil {
		t.Fatal(err)
	}
	out, _ := nl.WireByName("OUT")
	if !f.IsHigh(out) {
		t.Fatal("expected OUT to read high before A is driven")
	}
	if f.IsLow(out) {
		t.Fatal("OUT should not read low while it reads high")
	}
}

func TestFacadeRecalcWireListRejectsEmptySeed(t *testing.T) {
	nl, err := fixtures.Inverter()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	if err := f.RecalcWireList(nil, 1); !errors.Is(err, simerr.ErrMalformedNetlist) {
		t.Fatalf("RecalcWireList(nil seed) error = %v, want ErrMalformedNetlist", err)
	}
}

func TestFacadeCountersAdvance(t *testing.T) {
	nl, err := fixtures.Inverter()
	if err != nil {
		t.Fatal(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	if err := f.RecalcAll(); err != nil {
		t.Fatal(err)
	}
	_, _, recalculated := f.Counters()
	if recalculated == 0 {
		t.Fatal("expected NumWiresRecalculated to advance during the initial settle")
	}
}
