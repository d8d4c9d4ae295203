package input

import "InfiniteBoard/internal/state"

// Config is the user-selected tool state. It is passed by value with every
// event and replaced as a whole when a setting changes.
type Config struct {
	Mode  state.Mode `json:"mode"`
	Color string     `json:"color"`
	Size  float64    `json:"size"`
	// AllowPan enables panning by dragging with the middle button.
	AllowPan bool `json:"allowPan"`
}

// Brush size range offered by the size slider.
const (
	MinBrushSize = 0
	MaxBrushSize = 21
)

func DefaultConfig() Config {
	return Config{
		Mode:  state.ModeDraw,
		Color: "#000000",
		Size:  5,
	}
}

// Normalized fixes out-of-range fields: unknown modes fall back to drawing,
// an empty color to black, and the size is clamped to the slider range.
func (c Config) Normalized() Config {
	if !c.Mode.Valid() {
		c.Mode = state.ModeDraw
	}
	if c.Color == "" {
		c.Color = "#000000"
	}
	if c.Size < MinBrushSize {
		c.Size = MinBrushSize
	}
	if c.Size > MaxBrushSize {
		c.Size = MaxBrushSize
	}
	return c
}
