package net

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/state"
)

func TestDecodeClient(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`{"type":"pointerdown","x":1,"y":2,"button":1,"cardId":"c"}`, input.PointerDown{X: 1, Y: 2, Button: input.ButtonMiddle, CardID: "c"}},
		{`{"type":"pointermove","x":3,"y":4,"buttons":1}`, input.PointerMove{X: 3, Y: 4, Buttons: input.HeldPrimary}},
		{`{"type":"pointerup","x":5,"y":6}`, input.PointerUp{X: 5, Y: 6}},
		{`{"type":"pointerleave"}`, input.PointerLeave{}},
		{`{"type":"wheel","x":100,"y":100,"deltaY":-500}`, input.Wheel{X: 100, Y: 100, DeltaY: -500}},
		{`{"type":"resize","width":640,"height":480}`, board.Resize{Width: 640, Height: 480}},
		{`{"type":"config","config":{"mode":"erase","color":"red","size":9}}`, board.SetConfig{Mode: state.ModeErase, Color: "red", Size: 9}},
		{`{"type":"dragging","dragging":true}`, board.SetDragging(true)},
		{`{"type":"addcard","cardType":"text","content":"hi"}`, board.AddCard{Type: state.CardText, Content: "hi"}},
		{`{"type":"clear"}`, board.Clear{}},
		{`{"type":"resetview"}`, board.ResetView{}},
	}
	for _, tt := range tests {
		got, err := decodeClient([]byte(tt.in))
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeClientUpload(t *testing.T) {
	msg := `{"type":"upload","cardType":"image","name":"a.png","data":"` + base64.StdEncoding.EncodeToString([]byte("png")) + `"}`
	got, err := decodeClient([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	req, ok := got.(uploadRequest)
	if !ok || req.Type != state.CardImage || req.Name != "a.png" || string(req.Data) != "png" {
		t.Fatalf("decoded %#v", got)
	}
}

func TestDecodeClientErrors(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"type":"teleport"}`,
		`{"type":"config"}`,
		`{"type":"resize","width":-1,"height":600}`,
		`{"type":"addcard","cardType":"audio"}`,
		`{"type":"upload","cardType":"text","data":""}`,
		`{"type":"upload","cardType":"image","data":"%%%"}`,
	} {
		if _, err := decodeClient([]byte(in)); err == nil {
			t.Errorf("%s: no error", in)
		}
	}
	if _, err := decodeClient([]byte(`{"type":"teleport"}`)); !errors.Is(err, errUnknownType) {
		t.Errorf("unknown type err = %v", err)
	}
}

func TestDecodedResizeIsBounded(t *testing.T) {
	tests := []struct {
		msg  string
		want render.Size
	}{
		{`{"type":"resize","width":2147483648,"height":2147483648}`, render.Size{Width: render.MaxSurfaceSide, Height: render.MaxSurfacePixels / render.MaxSurfaceSide}},
		{`{"type":"resize","width":100000,"height":3}`, render.Size{Width: render.MaxSurfaceSide, Height: 3}},
		{`{"type":"resize","width":0,"height":0}`, render.Size{}},
	}
	for _, tt := range tests {
		ev, err := decodeClient([]byte(tt.msg))
		if err != nil {
			t.Fatalf("%s: %v", tt.msg, err)
		}
		b := board.New(render.Size{Width: 10, Height: 10}, input.DefaultConfig(), nil)
		var last board.Frame
		b.OnFrame = func(f board.Frame) { last = f }
		b.Handle(board.AddCard{Type: state.CardText, Content: "x"})
		b.Handle(ev)

		got := last.Image.Bounds()
		if got.Dx() != tt.want.Width || got.Dy() != tt.want.Height {
			t.Errorf("%s: surface %v, want %+v", tt.msg, got, tt.want)
		}
		if got.Dx()*got.Dy() > render.MaxSurfacePixels {
			t.Errorf("%s: surface %v over the limit", tt.msg, got)
		}
		if len(last.Cards) != 1 {
			t.Errorf("%s: cards = %+v", tt.msg, last.Cards)
		}
	}
}

func TestPushFrameKeepsImage(t *testing.T) {
	p := &Peer{wake: make(chan struct{}, 1)}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	p.pushFrame(board.Frame{Image: img, Full: true, Dirty: image.Rect(0, 0, 1, 1)})
	p.pushFrame(board.Frame{Image: img, Dirty: image.Rect(1, 1, 2, 2)})
	p.pushFrame(board.Frame{Cards: []render.Placement{{ID: "a"}}})

	f, _ := p.take()
	if f.Image != img || !f.Full || len(f.Cards) != 1 {
		t.Fatalf("coalesced frame = %+v", f)
	}
	if f.Dirty != image.Rect(0, 0, 2, 2) {
		t.Fatalf("coalesced dirty = %v", f.Dirty)
	}
	if f, _ := p.take(); f != nil {
		t.Fatal("frame taken twice")
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(Options{
		Size:      render.Size{Width: 40, Height: 30},
		Tool:      input.DefaultConfig(),
		Strategy:  render.Incremental{},
		UploadDir: t.TempDir(),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func readFrame(t *testing.T, conn *websocket.Conn) frameMessage {
	t.Helper()
	for {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		var m frameMessage
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatal(err)
		}
		if m.Type == "frame" {
			return m
		}
	}
}

func TestWebsocketRoundTrip(t *testing.T) {
	s, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	first := readFrame(t, conn)
	if first.Image == "" || first.Scale != 1 {
		t.Fatalf("first frame = %+v", first)
	}

	for _, m := range []string{
		`{"type":"pointerdown","x":5,"y":5,"button":0}`,
		`{"type":"pointermove","x":30,"y":5,"buttons":1}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
			t.Fatal(err)
		}
	}

	f := readFrame(t, conn)
	raw, err := base64.StdEncoding.DecodeString(f.Image)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if _, _, _, a := img.At(15, 5).RGBA(); a == 0 {
		t.Fatal("stroke missing from frame")
	}
	if s.Peers().Len() != 1 {
		t.Fatalf("peers = %d", s.Peers().Len())
	}
}

func TestWebsocketBadMessage(t *testing.T) {
	_, ts := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readFrame(t, conn)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"teleport"}`))
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var m errorMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "error" || !strings.Contains(m.Error, "teleport") {
		t.Fatalf("message = %+v", m)
	}
}

func TestServerRoutes(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("<canvas")) {
		t.Fatalf("index: %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/upload", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("upload without file: %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/nowhere")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route: %d", resp.StatusCode)
	}
}
