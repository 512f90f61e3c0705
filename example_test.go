package nmossim_test

import (
	"fmt"

	"github.com/wireflow/nmossim"
	"github.com/wireflow/nmossim/fixtures"
)

// Example builds the single-transistor inverter fixture and drives it
// through SimulatorFacade the way a chip driver would: settle once after
// load, pin the input, recalc from it, and read the output back.
func Example() {
	nl, err := fixtures.Inverter()
	if err != nil {
		panic(err)
	}
	f := nmossim.NewSimulatorFacade(nl)
	if err := f.RecalcAll(); err != nil {
		panic(err)
	}

	out, _ := nl.WireByName("OUT")
	fmt.Println("OUT before A driven:", nl.State(out))

	if err := f.SetHighByName("A"); err != nil {
		panic(err)
	}
	if err := f.RecalcNamedWire("A", 1); err != nil {
		panic(err)
	}
	fmt.Println("OUT after A driven high:", nl.State(out))

	// Output:
	// OUT before A driven: PULLED_HIGH
	// OUT after A driven high: GROUNDED
}
