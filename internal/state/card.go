package state

import "github.com/google/uuid"

// CardType is the kind of content a card carries.
type CardType string

const (
	CardText  CardType = "text"
	CardImage CardType = "image"
	CardVideo CardType = "video"
)

func (t CardType) Valid() bool {
	switch t {
	case CardText, CardImage, CardVideo:
		return true
	}
	return false
}

// Default logical position of a new card, and of any position lookup miss.
const (
	DefaultCardX = 100.0
	DefaultCardY = 100.0
)

// Card is a floating content block. Content is raw text for text cards and
// an opaque URL for image and video cards.
type Card struct {
	ID      string   `json:"id"`
	Type    CardType `json:"type"`
	Content string   `json:"content"`
}

// CardPosition is the logical placement of a card.
type CardPosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// CardStore holds cards and their positions keyed by id. Iteration follows
// creation order.
type CardStore struct {
	cards     map[string]Card
	positions map[string]CardPosition
	order     []string
}

func NewCardStore() *CardStore {
	return &CardStore{
		cards:     make(map[string]Card),
		positions: make(map[string]CardPosition),
	}
}

// AddCard creates a card at the default position and returns its id.
func (s *CardStore) AddCard(t CardType, content string) string {
	id := uuid.NewString()
	s.cards[id] = Card{ID: id, Type: t, Content: content}
	s.positions[id] = CardPosition{ID: id, X: DefaultCardX, Y: DefaultCardY}
	s.order = append(s.order, id)
	return id
}

// MoveCard sets the logical position of a card. Unknown ids are ignored and
// reported as false.
func (s *CardStore) MoveCard(id string, x, y float64) bool {
	if _, ok := s.positions[id]; !ok {
		return false
	}
	s.positions[id] = CardPosition{ID: id, X: x, Y: y}
	return true
}

// Position returns the card's position, or the default position when the id
// is unknown.
func (s *CardStore) Position(id string) CardPosition {
	if p, ok := s.positions[id]; ok {
		return p
	}
	return CardPosition{ID: id, X: DefaultCardX, Y: DefaultCardY}
}

func (s *CardStore) Card(id string) (Card, bool) {
	c, ok := s.cards[id]
	return c, ok
}

// Cards returns all cards in creation order.
func (s *CardStore) Cards() []Card {
	out := make([]Card, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cards[id])
	}
	return out
}

func (s *CardStore) Len() int {
	return len(s.order)
}

// Clear removes every card and position.
func (s *CardStore) Clear() {
	s.cards = make(map[string]Card)
	s.positions = make(map[string]CardPosition)
	s.order = nil
}
