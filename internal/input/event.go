package input

// Button identifies the button that changed state, numbered like DOM
// MouseEvent.button.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// Buttons is the set of buttons held during a move, as in DOM
// MouseEvent.buttons.
type Buttons int

const (
	HeldPrimary   Buttons = 1
	HeldSecondary Buttons = 2
	HeldMiddle    Buttons = 4
)

func (b Buttons) Has(h Buttons) bool {
	return b&h != 0
}

// Event is a pointer or wheel sample in screen coordinates.
type Event interface {
	inputEvent()
}

// PointerDown starts a gesture. CardID is set when the pointer went down on a
// card.
type PointerDown struct {
	X, Y   float64
	Button Button
	CardID string
}

type PointerMove struct {
	X, Y    float64
	Buttons Buttons
}

type PointerUp struct {
	X, Y   float64
	Button Button
}

// PointerLeave is sent when the pointer leaves the drawing surface.
type PointerLeave struct{}

// Wheel carries a vertical scroll delta; positive DeltaY zooms out.
type Wheel struct {
	X, Y   float64
	DeltaY float64
}

func (PointerDown) inputEvent()  {}
func (PointerMove) inputEvent()  {}
func (PointerUp) inputEvent()    {}
func (PointerLeave) inputEvent() {}
func (Wheel) inputEvent()        {}
