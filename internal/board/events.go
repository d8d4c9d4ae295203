package board

import (
	"image"

	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

// Events a Board handles besides the pointer and wheel events of package
// input.

// Resize changes the surface size; the surface is replayed from scratch.
type Resize render.Size

// SetConfig replaces the tool settings.
type SetConfig input.Config

// SetDragging raises or lowers the dragging flag for gestures the host UI
// intercepts (sliders, dialogs).
type SetDragging bool

// AddCard creates a card at the default position.
type AddCard struct {
	Type    state.CardType
	Content string
}

// ResetView returns to scale 1 with no offset. Content is kept.
type ResetView struct{}

// Clear empties strokes, cards and the surface.
type Clear struct{}

// CardCreated is the successful outcome of an upload: the card is added with
// the returned URL as content.
type CardCreated struct {
	Type state.CardType
	Name string
	URL  string
}

// CardCreationFailed is the failed outcome of an upload. No card is created.
type CardCreationFailed struct {
	Type state.CardType
	Name string
	Err  error
}

// Frame is what a host displays after a repaint.
type Frame struct {
	// Image is a copy of the surface the host may keep. It is nil when only
	// card placements changed and the previous image is still current.
	Image *image.RGBA
	// Dirty is the part of Image the repaint changed.
	Dirty     image.Rectangle
	Cards     []render.Placement
	Transform state.Transform
	// Full is set when the surface was replayed rather than patched.
	Full bool
}
