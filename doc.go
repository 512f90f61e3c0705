/*
Package nmossim implements the switch-network wire-value solver at the heart
of a transistor-level simulator for NMOS integrated circuits.

A circuit is modeled as a netlist of wires interconnected by NMOS
transistors. WireCalculator computes the steady-state logical value of every
wire reachable from a set of seed wires by iterating a fixed point over the
graph of currently-conducting transistors; SimulatorFacade exposes the
narrow surface a chip driver needs to pin inputs, trigger a recalc, and read
wire state back out.

Loading a netlist from a serialized record is handled by the sibling
netlistfile package; this package treats the netlist as already built.
*/
package nmossim
