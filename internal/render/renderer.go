package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"InfiniteBoard/internal/state"
)

// Size is a surface size in device pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Surface limits. A surface of the largest allowed area takes 128 MiB.
const (
	MaxSurfaceSide   = 8192
	MaxSurfacePixels = 8192 * 4096
)

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Clamped limits s to what a surface can be allocated for. Negative sides
// become zero; when the area is too large the height is reduced.
func (s Size) Clamped() Size {
	s.Width = min(max(s.Width, 0), MaxSurfaceSide)
	s.Height = min(max(s.Height, 0), MaxSurfaceSide)
	if s.Width > 0 && s.Width*s.Height > MaxSurfacePixels {
		s.Height = MaxSurfacePixels / s.Width
	}
	return s
}

// Renderer owns the raster surface strokes are painted on. It reads model
// state and never mutates it.
type Renderer struct {
	dc       *gg.Context
	size     Size
	strategy Strategy
	last     *Pass
	dirty    Rect
}

func NewRenderer(strategy Strategy) *Renderer {
	if strategy == nil {
		strategy = Incremental{}
	}
	return &Renderer{strategy: strategy}
}

// Render brings the surface up to date with the transform and stroke log at
// the given size. It reports whether the surface was replayed from scratch.
// Sizes beyond the surface limits are clamped.
func (r *Renderer) Render(t state.Transform, strokes *state.StrokeStore, size Size) bool {
	size = size.Clamped()
	r.dirty = Rect{}
	next := Pass{
		Transform:  t,
		Size:       size,
		Generation: strokes.Generation(),
		Count:      strokes.Len(),
	}

	from := r.strategy.Start(r.last, next)
	full := from < 0
	if full {
		r.reset(size)
		r.dirty = r.surfaceRect()
		from = 0
	}

	if r.dc != nil {
		for _, s := range strokes.Slice(from) {
			r.drawStroke(t, s)
		}
	}

	r.last = &next
	return full
}

// Invalidate forces the next pass to replay the whole log.
func (r *Renderer) Invalidate() {
	r.last = nil
}

// Image returns the live surface. It changes on the next Render.
func (r *Renderer) Image() *image.RGBA {
	if r.dc == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return r.dc.Image().(*image.RGBA)
}

// Snapshot returns a copy of the surface that later passes leave alone.
func (r *Renderer) Snapshot() *image.RGBA {
	src := r.Image()
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// Dirty returns the pixels the last pass changed. It is the whole surface
// after a full replay and empty when nothing visible was drawn.
func (r *Renderer) Dirty() image.Rectangle {
	if r.dc == nil || r.dirty.Empty() {
		return image.Rectangle{}
	}
	return r.dirty.Pixels(r.Image().Bounds())
}

func (r *Renderer) surfaceRect() Rect {
	return Rect{Width: float64(r.size.Width), Height: float64(r.size.Height)}
}

// reset resizes the surface, which leaves it fully transparent.
func (r *Renderer) reset(size Size) {
	r.size = size
	if size.Empty() {
		r.dc = nil
		return
	}
	if r.dc != nil && r.dc.Width() == size.Width && r.dc.Height() == size.Height {
		r.dc.SetColor(color.Transparent)
		r.dc.Clear()
		return
	}
	r.dc = gg.NewContext(size.Width, size.Height)
}

func (r *Renderer) drawStroke(t state.Transform, s state.Stroke) {
	if s.Size <= 0 {
		return
	}
	a := t.ToScreen(state.Point{X: s.X0, Y: s.Y0})
	b := t.ToScreen(state.Point{X: s.X1, Y: s.Y1})
	bounds := SegmentBounds(a.X, a.Y, b.X, b.Y, s.Size)
	if !bounds.Overlaps(r.surfaceRect()) {
		return
	}
	r.dirty = r.dirty.Union(bounds)

	if s.Mode == state.ModeErase {
		r.erase(a, b, s.Size, bounds)
		return
	}
	c, _ := ParseColor(s.Color)
	r.dc.SetColor(c)
	strokeSegment(r.dc, a, b, s.Size)
}

// erase removes coverage along the segment (destination-out). The segment is
// rasterized into a mask the size of its bounds, so the main context keeps
// normal source-over compositing throughout.
func (r *Renderer) erase(a, b state.Point, width float64, bounds Rect) {
	dst := r.Image()
	area := bounds.Pixels(dst.Bounds())
	if area.Empty() {
		return
	}

	mc := gg.NewContext(area.Dx(), area.Dy())
	mc.Translate(-float64(area.Min.X), -float64(area.Min.Y))
	mc.SetColor(color.Black)
	strokeSegment(mc, a, b, width)
	mask := mc.AsMask()

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			m := mask.AlphaAt(x-area.Min.X, y-area.Min.Y).A
			if m == 0 {
				continue
			}
			keep := uint32(0xff - m)
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[i+c] = uint8((uint32(dst.Pix[i+c])*keep + 0x7f) / 0xff)
			}
		}
	}
}

// strokeSegment paints a round-capped segment. A zero-length segment becomes
// a dot so every pointer sample leaves a mark.
func strokeSegment(dc *gg.Context, a, b state.Point, width float64) {
	if a == b {
		dc.DrawCircle(a.X, a.Y, width/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}
