package net

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/input"
	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/upload"
)

//go:embed static/index.html
var indexHTML []byte

// Options configure the boards a Server creates for each connection.
type Options struct {
	Size           render.Size
	Tool           input.Config
	Strategy       render.Strategy
	UploadDir      string
	MaxUploadBytes int64
}

// Server serves the browser client. Every websocket connection gets its own
// board and session; uploads share one store.
type Server struct {
	opts     Options
	store    upload.Store
	peers    *PeerManager
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:  opts,
		store: upload.DiskStore{Dir: opts.UploadDir, BaseURL: "/uploads"},
		peers: NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 << 10,
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", serveIndex)
	s.mux.HandleFunc("GET /ws", s.serveWS)
	s.mux.Handle("POST /api/upload", &upload.Handler{
		Store:    s.store,
		MaxBytes: opts.MaxUploadBytes,
		Log:      slog.Default().With("component", "upload"),
	})
	s.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) Peers() *PeerManager { return s.peers }

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	slog.Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.peers.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	if s.opts.MaxUploadBytes > 0 {
		// base64 grows payloads by a third
		conn.SetReadLimit(s.opts.MaxUploadBytes/3*4 + 4096)
	}

	peer := newPeer(conn)
	s.peers.Add(peer)
	defer s.peers.Remove(peer)

	b := board.New(s.opts.Size, s.opts.Tool, s.opts.Strategy)
	b.OnFrame = peer.pushFrame
	b.OnCardFailed = func(ev board.CardCreationFailed) {
		peer.pushMessage(errorMessage{Type: "cardFailed", Error: ev.Err.Error()})
	}
	sess := board.NewSession(b, s.store)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go sess.Run(ctx)
	go peer.writeLoop(ctx)

	if err := peer.readLoop(ctx, sess); err != nil &&
		!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		slog.Debug("read loop ended", "peer", peer.Addr(), "err", err)
	}
}
