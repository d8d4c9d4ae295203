package net

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

var errUnknownType = errors.New("unknown message type")

// clientMessage is every field a browser may send; Type selects which
// fields are meaningful.
type clientMessage struct {
	Type     string        `json:"type"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Button   int           `json:"button"`
	Buttons  int           `json:"buttons"`
	CardID   string        `json:"cardId"`
	DeltaY   float64       `json:"deltaY"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Config   *input.Config `json:"config"`
	Dragging bool          `json:"dragging"`
	CardType string        `json:"cardType"`
	Content  string        `json:"content"`
	Name     string        `json:"name"`
	Data     string        `json:"data"`
}

// uploadRequest is a file sent inline over the socket.
type uploadRequest struct {
	Type state.CardType
	Name string
	Data []byte
}

// decodeClient turns one text frame into a board event or an uploadRequest.
func decodeClient(data []byte) (any, error) {
	var m clientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch m.Type {
	case "pointerdown":
		return input.PointerDown{X: m.X, Y: m.Y, Button: input.Button(m.Button), CardID: m.CardID}, nil
	case "pointermove":
		return input.PointerMove{X: m.X, Y: m.Y, Buttons: input.Buttons(m.Buttons)}, nil
	case "pointerup":
		return input.PointerUp{X: m.X, Y: m.Y, Button: input.Button(m.Button)}, nil
	case "pointerleave":
		return input.PointerLeave{}, nil
	case "wheel":
		return input.Wheel{X: m.X, Y: m.Y, DeltaY: m.DeltaY}, nil
	case "resize":
		if m.Width < 0 || m.Height < 0 {
			return nil, fmt.Errorf("resize to %dx%d", m.Width, m.Height)
		}
		// The board clamps sizes it cannot allocate.
		return board.Resize{Width: m.Width, Height: m.Height}, nil
	case "config":
		if m.Config == nil {
			return nil, errors.New("config message without config")
		}
		return board.SetConfig(*m.Config), nil
	case "dragging":
		return board.SetDragging(m.Dragging), nil
	case "addcard":
		t := state.CardType(m.CardType)
		if !t.Valid() {
			return nil, fmt.Errorf("card type %q", m.CardType)
		}
		return board.AddCard{Type: t, Content: m.Content}, nil
	case "upload":
		t := state.CardType(m.CardType)
		if t != state.CardImage && t != state.CardVideo {
			return nil, fmt.Errorf("upload card type %q", m.CardType)
		}
		raw, err := base64.StdEncoding.DecodeString(m.Data)
		if err != nil {
			return nil, fmt.Errorf("upload data: %w", err)
		}
		return uploadRequest{Type: t, Name: m.Name, Data: raw}, nil
	case "resetview":
		return board.ResetView{}, nil
	case "clear":
		return board.Clear{}, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownType, m.Type)
}

type frameMessage struct {
	Type    string             `json:"type"`
	Image   string             `json:"image,omitempty"`
	Cards   []render.Placement `json:"cards"`
	Scale   float64            `json:"scale"`
	OffsetX float64            `json:"offsetX"`
	OffsetY float64            `json:"offsetY"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func encodeFrame(f board.Frame) ([]byte, error) {
	m := frameMessage{
		Type:    "frame",
		Cards:   f.Cards,
		Scale:   f.Transform.Scale,
		OffsetX: f.Transform.OffsetX,
		OffsetY: f.Transform.OffsetY,
	}
	if m.Cards == nil {
		m.Cards = []render.Placement{}
	}
	if f.Image != nil && !f.Image.Bounds().Empty() {
		img, err := encodePNG(f.Image)
		if err != nil {
			return nil, err
		}
		m.Image = img
	}
	return json.Marshal(m)
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
