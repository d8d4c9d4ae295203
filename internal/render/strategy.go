package render

import "InfiniteBoard/internal/state"

// Pass describes what a surface shows, or is about to show.
type Pass struct {
	Transform  state.Transform
	Size       Size
	Generation uint64
	Count      int
}

// Strategy decides how much of the stroke log a repaint has to replay.
// Whatever it decides, the resulting raster is the one a full replay of the
// current state would produce.
type Strategy interface {
	Name() string
	// Start returns the index of the first stroke to draw on top of the
	// current surface, or -1 when the surface must be cleared and replayed.
	// prev is nil when nothing has been rendered yet.
	Start(prev *Pass, next Pass) int
}

// FullReplay clears and replays the whole log on every pass.
type FullReplay struct{}

func (FullReplay) Name() string { return "full" }

func (FullReplay) Start(*Pass, Pass) int { return -1 }

// Incremental draws only the strokes appended since the previous pass as long
// as view, size and log generation are unchanged.
type Incremental struct{}

func (Incremental) Name() string { return "incremental" }

func (Incremental) Start(prev *Pass, next Pass) int {
	if prev == nil ||
		prev.Transform != next.Transform ||
		prev.Size != next.Size ||
		prev.Generation != next.Generation ||
		prev.Count > next.Count {
		return -1
	}
	return prev.Count
}

// StrategyByName maps a config value to a strategy. Unknown names select
// Incremental.
func StrategyByName(name string) Strategy {
	if name == (FullReplay{}).Name() {
		return FullReplay{}
	}
	return Incremental{}
}
