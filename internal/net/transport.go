package net

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"InfiniteBoard/internal/board"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Peer is one connected browser. Frames for it are coalesced: when the
// socket is slower than the board, only the newest frame is sent.
type Peer struct {
	conn *websocket.Conn
	addr string

	mu     sync.Mutex
	frame  *board.Frame
	queued [][]byte
	wake   chan struct{}
}

func newPeer(conn *websocket.Conn) *Peer {
	return &Peer{
		conn: conn,
		addr: conn.RemoteAddr().String(),
		wake: make(chan struct{}, 1),
	}
}

func (p *Peer) Addr() string { return p.addr }

// pushFrame replaces any frame not yet written. An image from a replaced
// frame is carried over when the new frame has none, and dirty areas add up.
func (p *Peer) pushFrame(f board.Frame) {
	p.mu.Lock()
	if p.frame != nil {
		if f.Image == nil {
			f.Image = p.frame.Image
			f.Full = f.Full || p.frame.Full
		}
		f.Dirty = f.Dirty.Union(p.frame.Dirty)
	}
	p.frame = &f
	p.mu.Unlock()
	p.notify()
}

// pushMessage queues a message that must not be dropped.
func (p *Peer) pushMessage(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode message", "peer", p.addr, "err", err)
		return
	}
	p.mu.Lock()
	p.queued = append(p.queued, data)
	p.mu.Unlock()
	p.notify()
}

func (p *Peer) pushError(err error) {
	p.pushMessage(errorMessage{Type: "error", Error: err.Error()})
}

func (p *Peer) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Peer) take() (*board.Frame, [][]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, q := p.frame, p.queued
	p.frame, p.queued = nil, nil
	return f, q
}

// writeLoop owns all writes to the socket until ctx is done or a write fails.
func (p *Peer) writeLoop(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ping.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-p.wake:
			frame, queued := p.take()
			for _, data := range queued {
				if err := p.write(data); err != nil {
					return
				}
			}
			if frame == nil {
				continue
			}
			data, err := encodeFrame(*frame)
			if err != nil {
				slog.Error("encode frame", "peer", p.addr, "err", err)
				continue
			}
			if err := p.write(data); err != nil {
				return
			}
		}
	}
}

func (p *Peer) write(data []byte) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("write failed", "peer", p.addr, "err", err)
		return err
	}
	return nil
}

// readLoop decodes client messages into sess until the socket fails.
func (p *Peer) readLoop(ctx context.Context, sess *board.Session) error {
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := decodeClient(data)
		if err != nil {
			slog.Warn("bad message", "peer", p.addr, "err", err)
			p.pushError(err)
			continue
		}
		switch msg := msg.(type) {
		case uploadRequest:
			sess.Upload(ctx, msg.Type, msg.Name, bytes.NewReader(msg.Data))
		default:
			if !sess.Post(msg) {
				return nil
			}
		}
	}
}

// PeerManager tracks the browsers connected to a server.
type PeerManager struct {
	peers map[*Peer]struct{}
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{peers: make(map[*Peer]struct{})}
}

func (pm *PeerManager) Add(p *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[p] = struct{}{}
	slog.Info("peer connected", "peer", p.addr, "peers", len(pm.peers))
}

func (pm *PeerManager) Remove(p *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, p)
	slog.Info("peer disconnected", "peer", p.addr, "peers", len(pm.peers))
}

func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// CloseAll drops every connection; their read loops then end.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for p := range pm.peers {
		p.conn.Close()
	}
}
