package state

// Mode selects how a stroke composites onto the surface.
type Mode string

const (
	ModeDraw  Mode = "draw"
	ModeErase Mode = "erase"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDraw || m == ModeErase
}

// Stroke is one drawn or erased segment in logical coordinates.
// A freehand gesture is a chain of strokes where each segment starts at the
// previous one's end.
type Stroke struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Mode  Mode    `json:"mode"`
}

// Degenerate reports a zero-length segment.
func (s Stroke) Degenerate() bool {
	return s.X0 == s.X1 && s.Y0 == s.Y1
}

// StrokeStore is the append-only, ordered log of strokes.
// Order matters: later strokes draw over, or erase through, earlier ones.
type StrokeStore struct {
	strokes    []Stroke
	generation uint64
}

func NewStrokeStore() *StrokeStore {
	return &StrokeStore{}
}

// Append adds a stroke to the end of the log.
func (s *StrokeStore) Append(st Stroke) {
	s.strokes = append(s.strokes, st)
}

// Clear drops every stroke and starts a new generation.
func (s *StrokeStore) Clear() {
	s.strokes = nil
	s.generation++
}

func (s *StrokeStore) Len() int {
	return len(s.strokes)
}

func (s *StrokeStore) At(i int) Stroke {
	return s.strokes[i]
}

// Slice returns the strokes from index from onwards. The result shares
// storage with the store and must not be modified.
func (s *StrokeStore) Slice(from int) []Stroke {
	if from < 0 {
		from = 0
	}
	if from >= len(s.strokes) {
		return nil
	}
	return s.strokes[from:len(s.strokes):len(s.strokes)]
}

// Generation changes whenever strokes are removed, so a caller that has seen
// n strokes of the same generation knows strokes [0, n) are unchanged.
func (s *StrokeStore) Generation() uint64 {
	return s.generation
}
