package track

import "fmt"

// Switch selects which branch of a junction is traversable. The zero state
// is the straight branch, so a freshly built junction behaves like plain
// track through its first branch.
type Switch struct {
	owner     *Segment
	diverging bool
}

func (sw *Switch) Owner() *Segment { return sw.owner }

// Diverging reports the current state: false selects the straight branch,
// true the diverging branch.
func (sw *Switch) Diverging() bool { return sw.diverging }

// State returns the state as a SwitchState for display and persistence.
func (sw *Switch) State() SwitchState {
	if sw.diverging {
		return StateDiverging
	}
	return StateStraight
}

// Toggle flips the switch. The owning junction's waypoint cache is
// invalidated (a transform-equality check alone would never notice a pure
// switch flip), and if the segment is registered, the graph rebuilds every
// path that runs through it.
func (sw *Switch) Toggle() {
	sw.SetDiverging(!sw.diverging)
}

// SetDiverging sets the state directly. No-op if already there.
func (sw *Switch) SetDiverging(diverging bool) {
	if sw.diverging == diverging {
		return
	}
	sw.diverging = diverging
	if sw.owner == nil {
		return
	}
	sw.owner.invalidate()
	if g := sw.owner.graph; g != nil {
		g.switchToggled(sw.owner)
	}
}

// SwitchState is the display/persistence form of a switch position.
type SwitchState int

const (
	StateStraight SwitchState = iota
	StateDiverging
)

func (s SwitchState) String() string {
	switch s {
	case StateStraight:
		return "straight"
	case StateDiverging:
		return "diverging"
	default:
		return fmt.Sprintf("%d", int(s))
	}
}
