package state

// Scene is the whole mutable model of one whiteboard session.
type Scene struct {
	Transform *Transform
	Strokes   *StrokeStore
	Cards     *CardStore
}

func NewScene() *Scene {
	return &Scene{
		Transform: NewTransform(),
		Strokes:   NewStrokeStore(),
		Cards:     NewCardStore(),
	}
}

// Clear empties strokes and cards. The view transform is left as is.
func (s *Scene) Clear() {
	s.Strokes.Clear()
	s.Cards.Clear()
}
