package nmossim

// WireState is the logical state of a wire. Values are bit flags so that
// membership in a class of states (ANY_HIGH, ANY_LOW) can be tested with a
// single mask instead of a chain of comparisons.
type WireState uint8

// The seven wire states and their derived masks.
const (
	PulledHigh   WireState = 1 << iota // pinned high by a pullup/pad
	PulledLow                          // pinned low by a pulldown/pad
	Grounded                           // driven low via a conducting path to VSS
	High                               // driven high via a conducting path to VCC
	FloatingHigh                       // isolated, retains a high charge
	FloatingLow                        // isolated, retains a low charge
	Floating                           // isolated, indeterminate (initial state)
)

// AnyHigh and AnyLow are the masks used by is_high/is_low and by the
// group-value new_high test in do_wire_recalc.
const (
	AnyHigh = High | PulledHigh | FloatingHigh
	AnyLow  = Grounded | PulledLow | FloatingLow
)

// String renders a WireState for logs and test failure messages.
func (s WireState) String() string {
	switch s {
	case PulledHigh:
		return "PULLED_HIGH"
	case PulledLow:
		return "PULLED_LOW"
	case Grounded:
		return "GROUNDED"
	case High:
		return "HIGH"
	case FloatingHigh:
		return "FLOATING_HIGH"
	case FloatingLow:
		return "FLOATING_LOW"
	case Floating:
		return "FLOATING"
	default:
		return "WireState(0)"
	}
}

// IsAnyHigh reports whether s is one of HIGH, PULLED_HIGH, FLOATING_HIGH.
func (s WireState) IsAnyHigh() bool { return s&AnyHigh != 0 }

// IsAnyLow reports whether s is one of GROUNDED, PULLED_LOW, FLOATING_LOW.
func (s WireState) IsAnyLow() bool { return s&AnyLow != 0 }
