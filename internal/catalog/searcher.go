package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
)

// SearchUpdate is one delivered live-search result set.
type SearchUpdate struct {
	Seq      uint64            `json:"seq"`
	Term     string            `json:"term"`
	Products []backend.Product `json:"products"`
}

// Searcher debounces keystrokes into catalog searches. Each query restarts
// the quiet-period timer and cancels the previous in-flight request; results
// carry a monotonic sequence and only the latest sequence is ever delivered.
type Searcher struct {
	svc   Service
	quiet time.Duration

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	latest *SearchUpdate
	notify chan struct{}

	updates chan SearchUpdate
}

// NewSearcher builds a debounced searcher over the catalog service.
func NewSearcher(svc Service, quiet time.Duration) *Searcher {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Searcher{
		svc:     svc,
		quiet:   quiet,
		notify:  make(chan struct{}),
		updates: make(chan SearchUpdate, 1),
	}
}

// Updates delivers result sets, newest only. A slow consumer sees stale sets
// replaced, never a backlog.
func (s *Searcher) Updates() <-chan SearchUpdate {
	return s.updates
}

// Query registers a new search term. The search fires after the quiet period
// unless another query supersedes it first.
func (s *Searcher) Query(term string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.seq
	}

	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.timer = time.AfterFunc(s.quiet, func() {
		s.run(ctx, seq, term)
	})
	return seq
}

// Await blocks until a result set with sequence seq or newer has been
// delivered, then returns the newest one. A superseded query resolves with
// the results of the query that replaced it.
func (s *Searcher) Await(ctx context.Context, seq uint64) (SearchUpdate, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return SearchUpdate{}, pkgerrors.New(pkgerrors.CodeInvalidState, "live search has been stopped")
		}
		if s.latest != nil && s.latest.Seq >= seq {
			update := *s.latest
			s.mu.Unlock()
			return update, nil
		}
		wake := s.notify
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return SearchUpdate{}, pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "live search interrupted")
		case <-wake:
		}
	}
}

// Close stops pending work. No updates are delivered afterwards.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	close(s.notify)
}

func (s *Searcher) run(ctx context.Context, seq uint64, term string) {
	products, err := s.svc.Search(ctx, term)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		return
	}
	update := SearchUpdate{Seq: seq, Term: term, Products: products}
	s.latest = &update
	close(s.notify)
	s.notify = make(chan struct{})
	for {
		select {
		case s.updates <- update:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
