package render

import (
	"image"
	"testing"

	"InfiniteBoard/internal/state"
)

func TestProjectCardsAfterMove(t *testing.T) {
	cards := state.NewCardStore()
	id := cards.AddCard(state.CardText, "hello")
	cards.MoveCard(id, 50, 60)

	got := ProjectCards(*state.NewTransform(), cards)
	if len(got) != 1 {
		t.Fatalf("placements = %+v", got)
	}
	p := got[0]
	if p.ID != id || p.Left != 50 || p.Top != 60 || p.Content != "hello" || p.Type != state.CardText {
		t.Fatalf("placement = %+v", p)
	}
}

func TestProjectCardsVisualScale(t *testing.T) {
	cards := state.NewCardStore()
	cards.AddCard(state.CardVideo, "https://example.com/v.mp4")

	tests := []struct {
		scale float64
		want  float64
	}{
		{0.5, 0.5},
		{1, 1},
		{1.19, 1.19},
		{1.2, 1},
		{3, 1},
	}
	for _, tt := range tests {
		tr := state.Transform{Scale: tt.scale, OffsetX: 10, OffsetY: -10}
		p := ProjectCards(tr, cards)[0]
		if p.Scale != tt.want {
			t.Errorf("scale %v: card scale %v, want %v", tt.scale, p.Scale, tt.want)
		}
		wantLeft := (state.DefaultCardX + 10) * tt.scale
		if p.Left != wantLeft {
			t.Errorf("scale %v: left %v, want %v", tt.scale, p.Left, wantLeft)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   [4]uint8
		wantOK bool
	}{
		{"#000000", [4]uint8{0, 0, 0, 255}, true},
		{"#FF8000", [4]uint8{255, 128, 0, 255}, true},
		{"#f80", [4]uint8{255, 136, 0, 255}, true},
		{"#11223344", [4]uint8{0x11, 0x22, 0x33, 0x44}, true},
		{"red", [4]uint8{255, 0, 0, 255}, true},
		{" CornflowerBlue ", [4]uint8{100, 149, 237, 255}, true},
		{"#12345", [4]uint8{0, 0, 0, 255}, false},
		{"#gggggg", [4]uint8{0, 0, 0, 255}, false},
		{"", [4]uint8{0, 0, 0, 255}, false},
	}
	for _, tt := range tests {
		c, ok := ParseColor(tt.in)
		got := [4]uint8{c.R, c.G, c.B, c.A}
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSegmentBounds(t *testing.T) {
	r := SegmentBounds(10, 20, 4, 30, 6)
	if r.X != 0 || r.Y != 16 || r.Width != 14 || r.Height != 18 {
		t.Fatalf("bounds = %+v", r)
	}
	if !r.Overlaps(Rect{X: 13, Y: 30, Width: 5, Height: 5}) {
		t.Fatal("expected overlap")
	}
	if r.Overlaps(Rect{X: 100, Y: 100, Width: 1, Height: 1}) {
		t.Fatal("unexpected overlap")
	}
	u := r.Union(Rect{X: -5, Y: 40, Width: 1, Height: 1})
	if u.X != -5 || u.Y != 16 || u.Width != 19 || u.Height != 25 {
		t.Fatalf("union = %+v", u)
	}
	px := r.Pixels(image.Rect(0, 0, 8, 100))
	if px != image.Rect(0, 16, 8, 34) {
		t.Fatalf("pixels = %v", px)
	}
}
