package render

import "InfiniteBoard/internal/state"

// CardScaleThreshold: below this zoom cards shrink with the view, at or above
// it they stay at their natural size.
const CardScaleThreshold = 1.2

// Placement is where a card is shown on screen for the current transform.
type Placement struct {
	ID      string         `json:"id"`
	Type    state.CardType `json:"type"`
	Content string         `json:"content"`
	Left    float64        `json:"left"`
	Top     float64        `json:"top"`
	Scale   float64        `json:"scale"`
}

// ProjectCards re-projects every card position through t.
func ProjectCards(t state.Transform, cards *state.CardStore) []Placement {
	scale := 1.0
	if t.Scale < CardScaleThreshold {
		scale = t.Scale
	}

	out := make([]Placement, 0, cards.Len())
	for _, c := range cards.Cards() {
		pos := cards.Position(c.ID)
		p := t.ToScreen(state.Point{X: pos.X, Y: pos.Y})
		out = append(out, Placement{
			ID:      c.ID,
			Type:    c.Type,
			Content: c.Content,
			Left:    p.X,
			Top:     p.Y,
			Scale:   scale,
		})
	}
	return out
}
