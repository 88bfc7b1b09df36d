// Package session keeps each viewer's SelectionState. States are never shared
// between sessions and never persisted.
package session

import (
	"errors"
	"sync"
	"time"

	"jobindex/internal/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("session not found")

// Session is a snapshot of one viewer's selection.
type Session struct {
	ID        string                `json:"id"`
	State     models.SelectionState `json:"state"`
	CreatedAt time.Time             `json:"created_at"`
	LastSeen  time.Time             `json:"last_seen"`
	Version   uint64                `json:"version"`
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewStore(ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		log:      log.With().Str("component", "sessions").Logger(),
	}
}

// Create registers a new session holding a copy of state.
func (s *Store) Create(state models.SelectionState) Session {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		State:     state.Clone(),
		CreatedAt: now,
		LastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Debug().Str("session", sess.ID).Str("country", state.Country).Msg("Session created")
	return snapshot(sess)
}

// Get returns a copy of the session and marks it as seen.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.LastSeen = s.now()
	return snapshot(sess), nil
}

// Update applies fn to a private copy of the state and stores it only if fn
// succeeds. fn runs without the lock held, so when another update lands in
// the meantime fn is run again on the newer state.
func (s *Store) Update(id string, fn func(models.SelectionState) (models.SelectionState, error)) (Session, error) {
	for {
		s.mu.Lock()
		sess, ok := s.live(id)
		if !ok {
			s.mu.Unlock()
			return Session{}, ErrNotFound
		}
		current := sess.State.Clone()
		version := sess.Version
		s.mu.Unlock()

		// fn may hit the registry, so it runs outside the lock.
		next, err := fn(current)
		if err != nil {
			return Session{}, err
		}

		s.mu.Lock()
		sess, ok = s.live(id)
		if !ok {
			s.mu.Unlock()
			return Session{}, ErrNotFound
		}
		if sess.Version != version {
			s.mu.Unlock()
			s.log.Debug().Str("session", id).Msg("Concurrent update, retrying")
			continue
		}
		sess.State = next.Clone()
		sess.Version++
		sess.LastSeen = s.now()
		out := snapshot(sess)
		s.mu.Unlock()
		return out, nil
	}
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("Expired sessions swept")
	}
	return removed
}

// StartJanitor runs Sweep on the given cron schedule until stop is called.
func (s *Store) StartJanitor(schedule string) (stop func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.Sweep() }); err != nil {
		return nil, err
	}
	c.Start()
	s.log.Info().Str("schedule", schedule).Dur("ttl", s.ttl).Msg("Session janitor started")
	return func() { <-c.Stop().Done() }, nil
}

// live must be called with mu held. Expired sessions are dropped lazily.
func (s *Store) live(id string) (*Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if sess.LastSeen.Before(s.now().Add(-s.ttl)) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func snapshot(sess *Session) Session {
	out := *sess
	out.State = sess.State.Clone()
	return out
}
