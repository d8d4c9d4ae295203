package input

import "InfiniteBoard/internal/state"

// State of the interaction machine.
type State int

const (
	Idle State = iota
	Drawing
	CardDragging
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case CardDragging:
		return "card-dragging"
	case Panning:
		return "panning"
	}
	return "unknown"
}

// Change tells the caller which parts of the scene an event touched.
type Change uint8

const (
	ChangeStrokes Change = 1 << iota
	ChangeTransform
	ChangeCards

	ChangeNone Change = 0
)

func (c Change) Has(o Change) bool {
	return c&o != 0
}

type cardDrag struct {
	id     string
	origin state.CardPosition // logical, at pointer down
	down   state.Point        // screen, at pointer down
}

// Machine turns raw pointer and wheel events into scene mutations. Drawing,
// card dragging and panning are mutually exclusive; wheel zoom is accepted in
// every state.
type Machine struct {
	state    State
	prev     state.Point // logical
	drag     cardDrag
	panFrom  state.Point // screen
	dragging bool
}

func NewMachine() *Machine {
	return &Machine{}
}

func (m *Machine) State() State {
	return m.state
}

// Dragging reports the dragging flag. While it is set, pointer moves never
// produce strokes.
func (m *Machine) Dragging() bool {
	return m.dragging || m.state == CardDragging
}

// SetDragging raises or lowers the dragging flag for gestures the host UI
// intercepts itself.
func (m *Machine) SetDragging(v bool) {
	m.dragging = v
}

// Reset drops any gesture in progress.
func (m *Machine) Reset() {
	m.state = Idle
	m.drag = cardDrag{}
}

// Handle applies one event to the scene using the tool settings in cfg.
func (m *Machine) Handle(ev Event, cfg Config, sc *state.Scene) Change {
	switch ev := ev.(type) {
	case PointerDown:
		return m.pointerDown(ev, cfg, sc)
	case PointerMove:
		return m.pointerMove(ev, cfg, sc)
	case PointerUp:
		return m.pointerUp()
	case PointerLeave:
		if m.state == Drawing || m.state == Panning {
			m.state = Idle
		}
		return ChangeNone
	case Wheel:
		if sc.Transform.ZoomAt(state.Point{X: ev.X, Y: ev.Y}, ev.DeltaY) {
			return ChangeTransform | ChangeCards
		}
	}
	return ChangeNone
}

func (m *Machine) pointerDown(ev PointerDown, cfg Config, sc *state.Scene) Change {
	if m.state != Idle {
		return ChangeNone
	}
	screen := state.Point{X: ev.X, Y: ev.Y}

	switch {
	case ev.CardID != "":
		m.state = CardDragging
		m.drag = cardDrag{
			id:     ev.CardID,
			origin: sc.Cards.Position(ev.CardID),
			down:   screen,
		}
	case ev.Button == ButtonPrimary:
		m.state = Drawing
		m.prev = sc.Transform.ToLogical(screen)
	case ev.Button == ButtonMiddle && cfg.AllowPan:
		m.state = Panning
		m.panFrom = screen
	}
	return ChangeNone
}

func (m *Machine) pointerMove(ev PointerMove, cfg Config, sc *state.Scene) Change {
	screen := state.Point{X: ev.X, Y: ev.Y}

	switch m.state {
	case Drawing:
		next := sc.Transform.ToLogical(screen)
		prev := m.prev
		m.prev = next
		if m.dragging || ev.Buttons != HeldPrimary {
			return ChangeNone
		}
		sc.Strokes.Append(state.Stroke{
			X0:    prev.X,
			Y0:    prev.Y,
			X1:    next.X,
			Y1:    next.Y,
			Color: cfg.Color,
			Size:  cfg.Size,
			Mode:  cfg.Mode,
		})
		return ChangeStrokes

	case CardDragging:
		scale := sc.Transform.Scale
		x := m.drag.origin.X + (screen.X-m.drag.down.X)/scale
		y := m.drag.origin.Y + (screen.Y-m.drag.down.Y)/scale
		if sc.Cards.MoveCard(m.drag.id, x, y) {
			return ChangeCards
		}

	case Panning:
		dx, dy := screen.X-m.panFrom.X, screen.Y-m.panFrom.Y
		m.panFrom = screen
		if sc.Transform.PanBy(dx, dy) {
			return ChangeTransform | ChangeCards
		}
	}
	return ChangeNone
}

func (m *Machine) pointerUp() Change {
	// An up without a matching down finds the machine idle and does nothing.
	m.state = Idle
	m.drag = cardDrag{}
	return ChangeNone
}
