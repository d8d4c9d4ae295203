package board

import (
	"fmt"

	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

// Board is one whiteboard session: the scene, the interaction machine and
// the renderer. It is not safe for concurrent use; a Session serializes
// access to it.
type Board struct {
	scene    *state.Scene
	machine  *input.Machine
	renderer *render.Renderer
	cfg      input.Config
	size     render.Size

	// OnFrame is called after every event that changed what is displayed.
	OnFrame func(Frame)
	// OnCardFailed is called when an upload did not produce a card.
	OnCardFailed func(CardCreationFailed)
}

func New(size render.Size, cfg input.Config, strategy render.Strategy) *Board {
	return &Board{
		scene:    state.NewScene(),
		machine:  input.NewMachine(),
		renderer: render.NewRenderer(strategy),
		cfg:      cfg.Normalized(),
		size:     size,
	}
}

// placements projects the cards through the current transform.
func (b *Board) placements() []render.Placement {
	return render.ProjectCards(*b.scene.Transform, b.scene.Cards)
}

// Handle applies one event. Accepted events are the input package's pointer
// and wheel events plus the event types declared in this package.
func (b *Board) Handle(ev any) {
	switch ev := ev.(type) {
	case input.Event:
		b.update(b.machine.Handle(ev, b.cfg, b.scene))

	case Resize:
		b.size = render.Size(ev).Clamped()
		b.renderer.Invalidate()
		b.update(input.ChangeStrokes | input.ChangeCards)

	case SetConfig:
		b.cfg = input.Config(ev).Normalized()

	case SetDragging:
		b.machine.SetDragging(bool(ev))

	case AddCard:
		b.addCard(ev.Type, ev.Content)

	case CardCreated:
		Logger().Info("upload finished", "name", ev.Name, "url", ev.URL)
		b.addCard(ev.Type, ev.URL)

	case CardCreationFailed:
		Logger().Warn("upload failed", "name", ev.Name, "err", ev.Err)
		if b.OnCardFailed != nil {
			b.OnCardFailed(ev)
		}

	case ResetView:
		b.scene.Transform.Reset()
		b.update(input.ChangeTransform | input.ChangeCards)

	case Clear:
		b.scene.Clear()
		b.machine.Reset()
		Logger().Info("board cleared")
		b.update(input.ChangeStrokes | input.ChangeCards)

	default:
		Logger().Warn("unhandled event", "type", fmt.Sprintf("%T", ev))
	}
}

// Repaint replays the whole surface and emits a frame.
func (b *Board) Repaint() {
	b.renderer.Invalidate()
	b.update(input.ChangeStrokes | input.ChangeCards)
}

func (b *Board) addCard(t state.CardType, content string) {
	if !t.Valid() {
		Logger().Warn("card with unknown type ignored", "type", t)
		return
	}
	id := b.scene.Cards.AddCard(t, content)
	Logger().Debug("card added", "id", id, "type", t)
	b.update(input.ChangeCards)
}

// update repaints the surface when strokes or the transform changed and
// re-projects cards, then hands the result to OnFrame. Strokes that fall
// outside the surface change nothing visible and produce no image.
func (b *Board) update(change input.Change) {
	if change == input.ChangeNone {
		return
	}

	frame := Frame{Transform: *b.scene.Transform}
	if change.Has(input.ChangeStrokes) || change.Has(input.ChangeTransform) {
		frame.Full = b.renderer.Render(*b.scene.Transform, b.scene.Strokes, b.size)
		frame.Dirty = b.renderer.Dirty()
		if b.OnFrame != nil && (frame.Full || !frame.Dirty.Empty()) {
			frame.Image = b.renderer.Snapshot()
		}
	}
	frame.Cards = b.placements()

	if b.OnFrame != nil {
		b.OnFrame(frame)
	}
}
