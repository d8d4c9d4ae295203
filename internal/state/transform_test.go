package state

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestTransformRoundTrip(t *testing.T) {
	transforms := []Transform{
		{Scale: 1},
		{Scale: 0.5, OffsetX: -120, OffsetY: 33.25},
		{Scale: 2.75, OffsetX: 1e4, OffsetY: -7},
		{Scale: 3, OffsetX: 0.1, OffsetY: 0.2},
	}
	points := []Point{{0, 0}, {100, 100}, {-50.5, 12}, {1920, 1080}}

	for _, tr := range transforms {
		for _, p := range points {
			got := tr.ToScreen(tr.ToLogical(p))
			if !near(got.X, p.X) || !near(got.Y, p.Y) {
				t.Errorf("transform %+v: round trip of %v = %v", tr, p, got)
			}
		}
	}
}

func TestZoomAtKeepsCursorAnchored(t *testing.T) {
	tr := Transform{Scale: 1.3, OffsetX: 40, OffsetY: -12}
	cursors := []Point{{100, 100}, {0, 0}, {640, 480}}
	deltas := []float64{-500, -120, 35, 250, 900}

	for _, c := range cursors {
		for _, d := range deltas {
			tt := tr
			before := tt.ToLogical(c)
			tt.ZoomAt(c, d)
			after := tt.ToLogical(c)
			if !near(before.X, after.X) || !near(before.Y, after.Y) {
				t.Errorf("cursor %v delta %v: logical moved from %v to %v", c, d, before, after)
			}
		}
	}
}

func TestZoomAtClampsScale(t *testing.T) {
	tr := NewTransform()
	for i := 0; i < 50; i++ {
		tr.ZoomAt(Point{X: 10, Y: 10}, -1000)
		if tr.Scale > MaxScale {
			t.Fatalf("scale %v above max", tr.Scale)
		}
	}
	if tr.Scale != MaxScale {
		t.Fatalf("scale = %v, want %v", tr.Scale, MaxScale)
	}
	for i := 0; i < 50; i++ {
		tr.ZoomAt(Point{X: 10, Y: 10}, 1000)
		if tr.Scale < MinScale {
			t.Fatalf("scale %v below min", tr.Scale)
		}
	}
	if tr.Scale != MinScale {
		t.Fatalf("scale = %v, want %v", tr.Scale, MinScale)
	}
}

func TestZoomAtWheelMinus500(t *testing.T) {
	tr := NewTransform()
	cursor := Point{X: 100, Y: 100}
	before := tr.ToLogical(cursor)

	if !tr.ZoomAt(cursor, -500) {
		t.Fatal("ZoomAt reported no change")
	}
	if tr.Scale != 2 {
		t.Fatalf("scale = %v, want 2", tr.Scale)
	}
	after := tr.ToLogical(cursor)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Fatalf("anchor moved: %v -> %v", before, after)
	}
	if !near(tr.OffsetX, -50) || !near(tr.OffsetY, -50) {
		t.Fatalf("offset = (%v, %v), want (-50, -50)", tr.OffsetX, tr.OffsetY)
	}
}

func TestZoomAtAtLimitIsNoChange(t *testing.T) {
	tr := Transform{Scale: MaxScale}
	if tr.ZoomAt(Point{}, -10) {
		t.Fatal("zoom past the limit at the origin should not change the transform")
	}
}

func TestPanBy(t *testing.T) {
	tr := Transform{Scale: 2}
	if tr.PanBy(0, 0) {
		t.Fatal("zero pan reported a change")
	}
	p := Point{X: 10, Y: 20}
	s0 := tr.ToScreen(p)
	tr.PanBy(30, -8)
	s1 := tr.ToScreen(p)
	if !near(s1.X-s0.X, 30) || !near(s1.Y-s0.Y, -8) {
		t.Fatalf("pan moved point by (%v, %v)", s1.X-s0.X, s1.Y-s0.Y)
	}
}
