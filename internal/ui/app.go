package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/upload"
)

type Options struct {
	Title      string
	Size       render.Size
	Tool       input.Config
	Strategy   render.Strategy
	UploadDir  string
	WheelScale float64
}

// RunApp opens the desktop window and blocks until it is closed or ctx is
// done.
func RunApp(ctx context.Context, opts Options) error {
	dir, err := filepath.Abs(opts.UploadDir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	store := upload.DiskStore{Dir: dir, BaseURL: storage.NewFileURI(dir).String()}

	a := app.NewWithID("io.infiniteboard.desktop")
	w := a.NewWindow(opts.Title)
	w.Resize(fyne.NewSize(float32(opts.Size.Width), float32(opts.Size.Height)))

	// The surface gets its size from the first layout pass.
	b := board.New(render.Size{}, opts.Tool, opts.Strategy)
	sess := board.NewSession(b, store)
	surface := NewBoardWidget(sess, opts.WheelScale)
	b.OnFrame = surface.ShowFrame
	b.OnCardFailed = func(ev board.CardCreationFailed) {
		fyne.Do(func() {
			dialog.ShowError(fmt.Errorf("could not add %s card %q: %w", ev.Type, ev.Name, ev.Err), w)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	toolbar := NewToolbar(ctx, sess, w, opts.Tool)
	w.SetContent(container.NewBorder(toolbar.Object(), nil, nil, nil, surface))

	go sess.Run(ctx)
	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	w.ShowAndRun()
	return nil
}
