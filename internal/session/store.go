package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
)

// Options configures a Store.
type Options struct {
	// MaxSessions caps the number of live sessions; 0 means no cap.
	MaxSessions int
	// TTL is how long a session may sit idle before Sweep removes it; 0
	// disables expiry.
	TTL time.Duration
	// EngineOptions are applied to every new session's engine.
	EngineOptions []engine.Option
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store keeps sessions in memory, keyed by ID.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
}

// NewStore returns an empty store.
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.opts.Now()
}

// Create starts a new session.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, s.opts.MaxSessions)
	}

	id := uuid.New().String()
	sess := New(id, engine.New(s.opts.EngineOptions...), s.opts.Now())
	s.sessions[id] = sess
	return sess, nil
}

// Get returns the session with id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete removes the session with id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	if s.opts.TTL <= 0 {
		return 0
	}
	cutoff := s.opts.Now().Add(-s.opts.TTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastUsed().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 || s.opts.TTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("expired idle sessions",
					zap.Int("removed", n),
					zap.Int("remaining", s.Len()),
				)
			}
		}
	}
}
