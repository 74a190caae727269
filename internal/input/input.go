// Package input turns raw pointer/keyboard events into committed game
// actions. Reveal/flag/chord commit on mouse-up, not mouse-down: button
// presses arrive sequentially, so release time is the only point where
// a dual-button chord can be told apart from a single click.
package input

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
	"github.com/GuyGinat/MassiveSweeperFront/internal/view"
)

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// ActionKind classifies a committed game action.
type ActionKind int

const (
	ActionReveal ActionKind = iota
	ActionFlag
	ActionChord
)

// Action is a committed game action on a world cell.
type Action struct {
	Kind ActionKind
	X    int
	Y    int
}

// State is the machine's current mode.
type State int

const (
	// Idle: tracking hover only.
	Idle State = iota
	// Panning: pointer motion translates the viewport.
	Panning
	// CellPressed: a button went down over a cell; commit is deferred
	// to release.
	CellPressed
)

// BoardFunc reports the board extent and chunk size once known.
type BoardFunc func() (size grid.Size, chunkSize int, ok bool)

// Machine consumes pointer/keyboard events and mutates the viewport it
// was given. Committed actions are returned from MouseUp.
type Machine struct {
	vp    *view.Viewport
	board BoardFunc

	state State
	held  mapset.Set[Button]

	hoverX, hoverY     int
	hoverOK            bool
	pressedX, pressedY int
	pressedOK          bool

	lastX, lastY float64
	modifier     bool // space-equivalent pan modifier
}

// New returns a machine driving vp. board may return ok=false until
// bootstrap completes; cell presses are ignored until then.
func New(vp *view.Viewport, board BoardFunc) *Machine {
	return &Machine{vp: vp, board: board, held: mapset.New[Button]()}
}

// State returns the current machine state.
func (m *Machine) State() State { return m.state }

// Hover returns the cell under the pointer, if any.
func (m *Machine) Hover() (x, y int, ok bool) { return m.hoverX, m.hoverY, m.hoverOK }

// Pressed returns the cell a button went down on, for the transient
// pressed visual. Cleared on release regardless of commit.
func (m *Machine) Pressed() (x, y int, ok bool) { return m.pressedX, m.pressedY, m.pressedOK }

// SetModifier records whether the pan modifier key is held.
func (m *Machine) SetModifier(down bool) { m.modifier = down }

// cellAt resolves a canvas position to an in-bounds world cell.
func (m *Machine) cellAt(sx, sy float64) (int, int, bool) {
	size, _, ok := m.board()
	if !ok {
		return 0, 0, false
	}
	x, y := m.vp.ScreenToCell(sx, sy)
	if !size.Contains(x, y) {
		return 0, 0, false
	}
	return x, y, true
}

// MouseDown handles a button press at canvas position (sx, sy).
func (m *Machine) MouseDown(b Button, sx, sy float64) {
	switch m.state {
	case Idle:
		if m.modifier || b == ButtonMiddle {
			m.state = Panning
			m.lastX, m.lastY = sx, sy
			return
		}
		x, y, ok := m.cellAt(sx, sy)
		if !ok {
			return
		}
		m.state = CellPressed
		m.pressedX, m.pressedY, m.pressedOK = x, y, true
		m.held.Put(b)
	case CellPressed:
		// Second button of a possible chord.
		m.held.Put(b)
	case Panning:
		// Extra buttons while panning are ignored.
	}
}

// MouseMove handles pointer motion to canvas position (sx, sy).
func (m *Machine) MouseMove(sx, sy float64) {
	if m.state == Panning {
		m.vp.Pan(sx-m.lastX, sy-m.lastY)
		m.lastX, m.lastY = sx, sy
		m.hoverOK = false
		return
	}
	m.hoverX, m.hoverY, m.hoverOK = m.cellAt(sx, sy)
}

// MouseUp handles a button release at canvas position (sx, sy) and
// returns the committed action, if any. Chord commits when both the
// primary and secondary buttons are in the held set at release time,
// no matter which of them physically came up; any commit additionally
// requires the pointer to still be over the pressed cell.
func (m *Machine) MouseUp(b Button, sx, sy float64) (Action, bool) {
	switch m.state {
	case Panning:
		m.state = Idle
		return Action{}, false
	case CellPressed:
		defer func() {
			m.held.Remove(b)
			m.pressedOK = false
			m.state = Idle
		}()

		x, y, ok := m.cellAt(sx, sy)
		sameCell := ok && x == m.pressedX && y == m.pressedY
		if !sameCell {
			return Action{}, false // moved off the cell: cancel
		}
		switch {
		case m.held.Has(ButtonPrimary) && m.held.Has(ButtonSecondary):
			return Action{Kind: ActionChord, X: x, Y: y}, true
		case m.held.Has(ButtonPrimary):
			return Action{Kind: ActionReveal, X: x, Y: y}, true
		case m.held.Has(ButtonSecondary):
			return Action{Kind: ActionFlag, X: x, Y: y}, true
		}
		return Action{}, false
	default:
		// Trailing release of a chord's second button, or a release
		// that never had a press: drop it.
		m.held.Remove(b)
		return Action{}, false
	}
}

// Wheel applies an anchor-preserving zoom step about the canvas point
// (sx, sy). dy follows the wheel convention: positive zooms in.
func (m *Machine) Wheel(sx, sy, dy float64) {
	if dy == 0 {
		return
	}
	_, chunkSize, _ := m.board()
	m.vp.ZoomAt(sx, sy, m.vp.Zoom*math.Pow(1.12, dy), chunkSize)
}
