package ui

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

// Palette offered by the toolbar.
var Palette = []string{"#000000", "#e53935", "#43a047", "#1e88e5", "#fdd835"}

type colorSwatch struct {
	widget.BaseWidget
	Color    string
	OnTapped func(string)
}

func newColorSwatch(c string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	fill, _ := render.ParseColor(s.Color)
	rect := canvas.NewRectangle(fill)
	rect.SetMinSize(fyne.NewSize(28, 28))
	rect.CornerRadius = 14

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	border.CornerRadius = 14

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the tool settings and posts them to the session whenever
// one of them changes.
type Toolbar struct {
	session *board.Session
	window  fyne.Window
	ctx     context.Context
	cfg     input.Config
}

func NewToolbar(ctx context.Context, s *board.Session, w fyne.Window, cfg input.Config) *Toolbar {
	return &Toolbar{session: s, window: w, ctx: ctx, cfg: cfg.Normalized()}
}

func (t *Toolbar) apply(change func(*input.Config)) {
	change(&t.cfg)
	t.cfg = t.cfg.Normalized()
	t.session.Post(board.SetConfig(t.cfg))
}

func (t *Toolbar) Object() fyne.CanvasObject {
	var modeAction *widget.ToolbarAction
	modeAction = widget.NewToolbarAction(theme.ContentRemoveIcon(), func() {
		t.apply(func(c *input.Config) {
			if c.Mode == state.ModeDraw {
				c.Mode = state.ModeErase
			} else {
				c.Mode = state.ModeDraw
			}
		})
		if t.cfg.Mode == state.ModeErase {
			modeAction.SetIcon(theme.DocumentCreateIcon())
		} else {
			modeAction.SetIcon(theme.ContentRemoveIcon())
		}
	})

	tb := widget.NewToolbar(
		modeAction,
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentIcon(), t.addText),
		widget.NewToolbarAction(theme.FileImageIcon(), t.addImage),
		widget.NewToolbarAction(theme.FileVideoIcon(), t.addVideo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() { t.session.Post(board.ResetView{}) }),
		widget.NewToolbarAction(theme.DeleteIcon(), t.clear),
	)

	colors := container.NewHBox()
	for _, c := range Palette {
		colors.Add(newColorSwatch(c, func(c string) {
			t.apply(func(cfg *input.Config) { cfg.Color = c })
		}))
	}

	size := widget.NewSlider(input.MinBrushSize, input.MaxBrushSize)
	size.Step = 1
	size.SetValue(t.cfg.Size)
	dragging := false
	size.OnChanged = func(v float64) {
		if !dragging {
			dragging = true
			t.session.Post(board.SetDragging(true))
		}
		t.apply(func(c *input.Config) { c.Size = v })
	}
	size.OnChangeEnded = func(float64) {
		dragging = false
		t.session.Post(board.SetDragging(false))
	}
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), size)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		colors,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sizeBox,
		layout.NewSpacer(),
	)
}

func (t *Toolbar) clear() {
	dialog.ShowConfirm("Clear board", "Remove every stroke and card?", func(ok bool) {
		if ok {
			t.session.Post(board.Clear{})
		}
	}, t.window)
}

func (t *Toolbar) addText() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Card text")
	dialog.ShowForm("Text card", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) {
			if ok && entry.Text != "" {
				t.session.Post(board.AddCard{Type: state.CardText, Content: entry.Text})
			}
		}, t.window)
}

func (t *Toolbar) addImage() {
	t.upload(state.CardImage, []string{".png", ".jpg", ".jpeg", ".gif", ".webp"})
}

// addVideo takes a URL, or a file when the URL is left empty.
func (t *Toolbar) addVideo() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://... (leave empty to pick a file)")
	dialog.ShowForm("Video card", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("URL", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			if entry.Text != "" {
				t.session.Post(board.AddCard{Type: state.CardVideo, Content: entry.Text})
				return
			}
			t.upload(state.CardVideo, []string{".mp4", ".webm", ".mov", ".mkv"})
		}, t.window)
}

func (t *Toolbar) upload(kind state.CardType, exts []string) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(fmt.Errorf("open file: %w", err), t.window)
			return
		}
		if r == nil {
			return
		}
		t.session.Upload(t.ctx, kind, r.URI().Name(), r)
	}, t.window)
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}
