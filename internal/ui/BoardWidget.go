package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
)

// fyne reports one wheel notch as 10 units; browsers report about 100.
const wheelStep = 10

// BoardWidget shows the frames of a session and forwards pointer and wheel
// input to it. Card widgets float above the raster.
type BoardWidget struct {
	widget.BaseWidget
	session    *board.Session
	wheelScale float64

	surface *canvas.Image
	cards   *fyne.Container
	byID    map[string]*cardWidget
	held    input.Buttons
	size    render.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(s *board.Session, wheelScale float64) *BoardWidget {
	if wheelScale <= 0 {
		wheelScale = 1
	}
	b := &BoardWidget{
		session:    s,
		wheelScale: wheelScale,
		surface:    canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		cards:      container.NewWithoutLayout(),
		byID:       make(map[string]*cardWidget),
	}
	b.surface.FillMode = canvas.ImageFillStretch
	b.ExtendBaseWidget(b)
	return b
}

// ShowFrame displays f. It may be called from any goroutine.
func (b *BoardWidget) ShowFrame(f board.Frame) {
	fyne.Do(func() {
		if f.Image != nil {
			b.surface.Image = f.Image
			b.surface.Refresh()
		}
		b.placeCards(f.Cards)
	})
}

func (b *BoardWidget) placeCards(placements []render.Placement) {
	ps := b.pixelScale()
	seen := make(map[string]bool, len(placements))
	for _, p := range placements {
		seen[p.ID] = true
		c, ok := b.byID[p.ID]
		if !ok {
			c = newCardWidget(b, p)
			b.byID[p.ID] = c
			b.cards.Add(c)
		}
		c.place(p, ps)
	}
	for id, c := range b.byID {
		if !seen[id] {
			b.cards.Remove(c)
			delete(b.byID, id)
		}
	}
	b.cards.Refresh()
}

// pixelScale is the number of surface pixels per fyne unit.
func (b *BoardWidget) pixelScale() float32 {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(b); c != nil && c.Scale() > 0 {
			return c.Scale()
		}
	}
	return 1
}

func (b *BoardWidget) toSurface(pos fyne.Position) (float64, float64) {
	ps := b.pixelScale()
	return float64(pos.X * ps), float64(pos.Y * ps)
}

// fromAbsolute converts a window position to surface pixels.
func (b *BoardWidget) fromAbsolute(abs fyne.Position) (float64, float64) {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(b)
	return b.toSurface(abs.Subtract(origin))
}

func (b *BoardWidget) resized(size fyne.Size) {
	ps := b.pixelScale()
	next := render.Size{
		Width:  int(math.Round(float64(size.Width * ps))),
		Height: int(math.Round(float64(size.Height * ps))),
	}
	if next == b.size {
		return
	}
	b.size = next
	b.session.Post(board.Resize(next))
}

func buttonOf(e *desktop.MouseEvent) (input.Button, input.Buttons) {
	switch e.Button {
	case desktop.MouseButtonSecondary:
		return input.ButtonSecondary, input.HeldSecondary
	case desktop.MouseButtonTertiary:
		return input.ButtonMiddle, input.HeldMiddle
	}
	return input.ButtonPrimary, input.HeldPrimary
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	btn, mask := buttonOf(e)
	b.held |= mask
	x, y := b.toSurface(e.Position)
	b.session.Post(input.PointerDown{X: x, Y: y, Button: btn})
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	btn, mask := buttonOf(e)
	b.held &^= mask
	x, y := b.toSurface(e.Position)
	b.session.Post(input.PointerUp{X: x, Y: y, Button: btn})
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	x, y := b.toSurface(e.Position)
	b.session.Post(input.PointerMove{X: x, Y: y, Buttons: b.held})
}

func (b *BoardWidget) MouseOut() {
	b.held = 0
	b.session.Post(input.PointerLeave{})
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	x, y := b.toSurface(e.Position)
	delta := -float64(e.Scrolled.DY) * wheelStep * b.wheelScale
	b.session.Post(input.Wheel{X: x, Y: y, DeltaY: delta})
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{
		board:      b,
		background: canvas.NewRectangle(color.White),
	}
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.surface, r.board.cards}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.surface.Resize(size)
	r.board.cards.Resize(size)
	r.board.resized(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}
