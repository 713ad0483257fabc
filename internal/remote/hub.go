package remote

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/hailam/chessboard/internal/chessboard"
	"github.com/hailam/chessboard/internal/storage"
)

// Hub tracks the live sessions. Sessions stopped for idleness are revived
// from storage on the next lookup.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     SessionOptions
}

// NewHub creates a hub whose sessions share opts.
func NewHub(opts SessionOptions) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create starts a session on the initial position.
func (h *Hub) Create() (*Session, error) {
	s, err := newSession(uuid.New().String(), h.opts)
	if err != nil {
		return nil, err
	}
	if err := s.board.Restore(chessboard.Snapshot{Start: "start"}); err != nil {
		s.board.Close()
		return nil, err
	}
	h.start(s)
	s.log.Info().Msg("session created")
	return s, nil
}

// Get returns the live session id, reviving it from storage if needed.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		return s, true
	}
	if h.opts.Storage == nil {
		return nil, false
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	saved, err := h.opts.Storage.LoadSession(id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.opts.Log.Warn().Err(err).Str("session", id).Msg("[Storage] failed to load session")
		}
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		return s, true
	}
	s, err = newSession(id, h.opts)
	if err != nil {
		h.opts.Log.Error().Err(err).Str("session", id).Msg("failed to revive session")
		return nil, false
	}
	if err := s.restore(saved); err != nil {
		s.log.Warn().Err(err).Msg("session only partly restored")
	}
	h.startLocked(s)
	s.log.Info().Msg("session revived")
	return s, true
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close stops every session.
func (h *Hub) Close() {
	h.mu.RLock()
	live := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		live = append(live, s)
	}
	h.mu.RUnlock()

	for _, s := range live {
		s.Stop()
	}
}

func (h *Hub) start(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.startLocked(s)
}

func (h *Hub) startLocked(s *Session) {
	s.onExit = h.remove
	h.sessions[s.id] = s
	go s.run()
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[s.id] == s {
		delete(h.sessions, s.id)
	}
}
