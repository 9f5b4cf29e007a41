package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/pkg/uid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*Session // gameID → Session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

func (sm *SessionManager) Add(session *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[session.ID] = session
	log.Info().Str("game", session.ID).Str("mode", string(session.Options.Mode)).
		Int("engine", int(session.Options.EnginePlayer)).Int("depth", session.Options.Depth).
		Msg("[SESSION] Created session")
}

func (sm *SessionManager) Get(gameID string) (*Session, bool) {
	if !uid.IsGameID(gameID) {
		return nil, false
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) Remove(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return errors.Wrapf(domain.ErrSessionNotFound, "game %s", gameID)
	}
	delete(sm.sessions, gameID)
	log.Info().Str("game", gameID).Msg("[SESSION] Removed session")
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// List returns a snapshot of every session, oldest first.
func (sm *SessionManager) List() []Snapshot {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CleanupOldSessions drops sessions nobody has touched for idleTTL and
// returns how many went away.
func (sm *SessionManager) CleanupOldSessions(idleTTL time.Duration) int {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	// a session busy with a search holds its own lock; check idleness
	// without blocking the whole manager behind it
	now := time.Now()
	var stale []string
	for _, s := range sessions {
		if now.Sub(s.idleSince()) > idleTTL {
			stale = append(stale, s.ID)
		}
	}

	sm.mu.Lock()
	for _, gameID := range stale {
		delete(sm.sessions, gameID)
	}
	sm.mu.Unlock()

	if len(stale) > 0 {
		log.Info().Int("removed", len(stale)).Msg("[SESSION] Memory cleanup: removed stale game sessions")
	}
	return len(stale)
}

// Service is the entry point the UI talks to.
type Service struct {
	Sessions *SessionManager
	searcher Searcher
	defaults Options
}

func NewService(searcher Searcher, defaults Options) *Service {
	return &Service{
		Sessions: NewSessionManager(),
		searcher: searcher,
		defaults: defaults,
	}
}

func (s *Service) Defaults() Options {
	return s.defaults
}

// NewGame opens a session. Zero fields of opts take the service defaults.
// When the engine owns the first move it is played before returning.
func (s *Service) NewGame(ctx context.Context, opts Options) (*Session, error) {
	if opts.Mode == "" {
		opts.Mode = s.defaults.Mode
	}
	if opts.EnginePlayer == domain.Empty {
		opts.EnginePlayer = s.defaults.EnginePlayer
	}
	if opts.Depth == 0 {
		opts.Depth = s.defaults.Depth
	}

	session, err := NewSession(opts, s.searcher)
	if err != nil {
		return nil, err
	}
	s.Sessions.Add(session)

	if session.EngineToMove() {
		if _, err := session.PlayEngine(ctx); err != nil {
			return session, err
		}
	}
	return session, nil
}

func (s *Service) Get(gameID string) (*Session, error) {
	session, ok := s.Sessions.Get(gameID)
	if !ok {
		return nil, errors.Wrapf(domain.ErrSessionNotFound, "game %s", gameID)
	}
	return session, nil
}

// Restart resets the session and lets the engine open if it plays first.
func (s *Service) Restart(ctx context.Context, gameID string) (*Session, error) {
	session, err := s.Get(gameID)
	if err != nil {
		return nil, err
	}
	session.Reset()
	if session.EngineToMove() {
		if _, err := session.PlayEngine(ctx); err != nil {
			return session, err
		}
	}
	return session, nil
}

func (s *Service) Remove(gameID string) error {
	return s.Sessions.Remove(gameID)
}

// Analyze searches a position that belongs to no session.
func (s *Service) Analyze(ctx context.Context, board domain.Board, depth int) (bot.Result, error) {
	if depth < 1 {
		depth = s.defaults.Depth
	}
	side := board.Turn()
	res, err := s.searcher.BestMove(ctx, &board, depth, side)
	if err != nil {
		return bot.Result{}, errors.Wrap(err, "analyze")
	}
	log.Debug().Int("side", int(side)).Int("depth", depth).Int("column", res.Column).
		Int("score", res.Score).Msg("[BOT] Analysis")
	return res, nil
}
