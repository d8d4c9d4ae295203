package ui

import (
	"image/color"
	"net/url"
	"path"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

// Unscaled card sizes in fyne units.
var (
	textCardSize  = fyne.NewSize(180, 60)
	mediaCardSize = fyne.NewSize(240, 180)
)

const textLineHeight = 20

// cardWidget is one card over the board. Presses and drags on it are
// forwarded to the board's session with the card id, so the session moves
// the card and hands back new placements.
type cardWidget struct {
	widget.BaseWidget
	board *BoardWidget
	id    string
	base  fyne.Size

	lines   []*canvas.Text
	content fyne.CanvasObject
}

var _ fyne.Draggable = (*cardWidget)(nil)
var _ desktop.Mouseable = (*cardWidget)(nil)

func newCardWidget(b *BoardWidget, p render.Placement) *cardWidget {
	c := &cardWidget{board: b, id: p.ID, base: mediaCardSize}

	switch p.Type {
	case state.CardText:
		// canvas.Text draws a single line, so each line gets its own.
		box := container.NewVBox()
		for _, l := range strings.Split(p.Content, "\n") {
			t := canvas.NewText(l, color.Black)
			c.lines = append(c.lines, t)
			box.Add(t)
		}
		c.base = textCardSize
		c.base.Height += textLineHeight * float32(len(c.lines)-1)
		c.content = container.NewCenter(box)
	case state.CardImage:
		if uri, err := storage.ParseURI(p.Content); err == nil {
			img := canvas.NewImageFromURI(uri)
			img.FillMode = canvas.ImageFillContain
			c.content = img
		} else {
			c.content = widget.NewLabel(p.Content)
		}
	case state.CardVideo:
		name := p.Content
		if u, err := url.Parse(p.Content); err == nil {
			name = path.Base(u.Path)
			c.content = container.NewCenter(container.NewVBox(
				widget.NewIcon(theme.MediaVideoIcon()),
				widget.NewHyperlink(name, u),
			))
		} else {
			c.content = widget.NewLabel(name)
		}
	default:
		c.content = widget.NewLabel(p.Content)
	}
	c.ExtendBaseWidget(c)
	return c
}

func (c *cardWidget) place(p render.Placement, pixelScale float32) {
	scale := float32(p.Scale)
	c.Move(fyne.NewPos(float32(p.Left)/pixelScale, float32(p.Top)/pixelScale))
	c.Resize(fyne.NewSize(c.base.Width*scale, c.base.Height*scale))
	for _, t := range c.lines {
		t.TextSize = theme.TextSize() * scale
		t.Refresh()
	}
}

func (c *cardWidget) MouseDown(e *desktop.MouseEvent) {
	btn, _ := buttonOf(e)
	x, y := c.board.fromAbsolute(e.AbsolutePosition)
	c.board.session.Post(input.PointerDown{X: x, Y: y, Button: btn, CardID: c.id})
}

func (c *cardWidget) MouseUp(e *desktop.MouseEvent) {
	btn, _ := buttonOf(e)
	x, y := c.board.fromAbsolute(e.AbsolutePosition)
	c.board.session.Post(input.PointerUp{X: x, Y: y, Button: btn})
}

func (c *cardWidget) Dragged(e *fyne.DragEvent) {
	x, y := c.board.fromAbsolute(e.AbsolutePosition)
	c.board.session.Post(input.PointerMove{X: x, Y: y, Buttons: input.HeldPrimary})
}

func (c *cardWidget) DragEnd() {
	c.board.session.Post(input.PointerUp{})
}

func (c *cardWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 255, G: 251, B: 230, A: 255})
	bg.StrokeColor = color.Gray{Y: 190}
	bg.StrokeWidth = 1
	bg.CornerRadius = 4
	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewPadded(c.content)))
}
