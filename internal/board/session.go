package board

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"InfiniteBoard/internal/state"
	"InfiniteBoard/internal/upload"
)

var (
	// ErrStopped is returned by Run when the session was already run once.
	ErrStopped = errors.New("session stopped")
	// ErrNoStore is reported for uploads on a session without a store.
	ErrNoStore = errors.New("no upload store")
)

// Session owns a Board and feeds it events from a single goroutine. Post
// and Upload may be called from any goroutine.
type Session struct {
	board  *Board
	store  upload.Store
	events chan any

	started atomic.Bool
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// NewSession wraps b. A nil store makes every upload fail.
func NewSession(b *Board, store upload.Store) *Session {
	return &Session{
		board:  b,
		store:  store,
		events: make(chan any, 256),
		done:   make(chan struct{}),
	}
}

// Post queues ev for the board. It blocks while the queue is full and
// returns false once the session has stopped.
func (s *Session) Post(ev any) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return false
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// Run handles queued events one at a time until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrStopped
	}
	Logger().Info("session started")
	defer func() {
		close(s.done)
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		Logger().Info("session stopped")
	}()

	s.board.Repaint()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.board.Handle(ev)
		}
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Upload stores r on its own goroutine and posts CardCreated or
// CardCreationFailed when it finishes. The returned channel is closed once
// the outcome has been posted.
func (s *Session) Upload(ctx context.Context, t state.CardType, name string, r io.Reader) <-chan struct{} {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}
		if s.store == nil {
			s.Post(CardCreationFailed{Type: t, Name: name, Err: ErrNoStore})
			return
		}
		url, err := s.store.Save(ctx, name, r)
		if err != nil {
			s.Post(CardCreationFailed{Type: t, Name: name, Err: err})
			return
		}
		s.Post(CardCreated{Type: t, Name: name, URL: url})
	}()
	return finished
}
