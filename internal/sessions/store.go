package sessions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
)

// Store keeps workflow sessions in memory. Each session is guarded by its own
// mutex so at most one action per session runs at a time. Sessions idle longer
// than the idle timeout are evicted when the store is next accessed.
type Store struct {
	registry *stages.Registry
	idle     time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	mu       sync.Mutex
	session  *workflow.Session
	archives map[string]struct{}
	lastUsed time.Time
}

// NewStore creates an empty Store.
func NewStore(registry *stages.Registry, idle time.Duration, logger *slog.Logger) *Store {
	return &Store{
		registry: registry,
		idle:     idle,
		logger:   logger.With("system", "sessions"),
		now:      time.Now,
		entries:  make(map[uuid.UUID]*entry),
	}
}

// Create starts a new session on the intake stage and returns its id.
func (s *Store) Create() uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict()
	s.entries[id] = &entry{
		session:  workflow.NewSession(s.registry),
		lastUsed: s.now(),
	}

	s.logger.Debug("session created", "session", id)
	return id
}

// Exists reports whether id names a live session.
func (s *Store) Exists(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict()
	_, ok := s.entries[id]
	return ok
}

// With runs fn with exclusive access to the session id.
func (s *Store) With(id uuid.UUID, fn func(*workflow.Session) error) error {
	e, ok := s.entry(id)
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// AddArchive records name as an archived export owned by the session id.
func (s *Store) AddArchive(id uuid.UUID, name string) error {
	e, ok := s.entry(id)
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.archives == nil {
		e.archives = make(map[string]struct{})
	}
	e.archives[name] = struct{}{}
	return nil
}

// OwnsArchive reports whether the session id exported the archive name.
func (s *Store) OwnsArchive(id uuid.UUID, name string) bool {
	e, ok := s.entry(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	_, owned := e.archives[name]
	return owned
}

func (s *Store) entry(id uuid.UUID) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict()
	e, ok := s.entries[id]
	if ok {
		e.lastUsed = s.now()
	}
	return e, ok
}

// Remove discards the session id.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		delete(s.entries, id)
		s.logger.Debug("session removed", "session", id)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict()
	return len(s.entries)
}

// evict drops idle sessions. Callers hold s.mu.
func (s *Store) evict() {
	if s.idle <= 0 {
		return
	}

	cutoff := s.now().Add(-s.idle)
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
			s.logger.Info("session expired", "session", id)
		}
	}
}
