package game

import (
	"context"
	"sync"
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/pkg/uid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Mode string

const (
	// ModeVsEngine pits a human against the engine.
	ModeVsEngine Mode = "vs_engine"
	// ModeTwoPlayer lets two humans share the board. The engine can still be
	// asked for a move on behalf of whoever is to play.
	ModeTwoPlayer Mode = "two_player"
)

type Options struct {
	Mode         Mode
	EnginePlayer domain.PlayerID
	Depth        int
}

func (o Options) validate() error {
	if o.Mode != ModeVsEngine && o.Mode != ModeTwoPlayer {
		return errors.Wrapf(domain.ErrInvalidOptions, "unknown mode %q", o.Mode)
	}
	if !o.EnginePlayer.Valid() {
		return errors.Wrapf(domain.ErrInvalidOptions, "engine player %d", o.EnginePlayer)
	}
	if o.Depth < 1 {
		return errors.Wrapf(domain.ErrInvalidOptions, "search depth %d", o.Depth)
	}
	return nil
}

// Searcher picks the engine's column. bot.Player is the real one.
type Searcher interface {
	BestMove(ctx context.Context, board *domain.Board, depth int, side domain.PlayerID) (bot.Result, error)
}

// Session is one game on one board. Every method takes the session lock so
// a human move, the engine's answer and the outcome checks between them
// can never interleave with another request on the same board.
type Session struct {
	ID           string
	Options      Options
	Game         *domain.Game
	CreatedAt    time.Time
	LastActivity time.Time

	lastResult *bot.Result
	searcher   Searcher
	mu         sync.Mutex
}

// NewSession starts a fresh game with Player1 to move.
func NewSession(opts Options, searcher Searcher) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:           uid.GenerateGameID(),
		Options:      opts,
		Game:         domain.NewGame(),
		CreatedAt:    now,
		LastActivity: now,
		searcher:     searcher,
	}, nil
}

// PlayHuman drops a piece for the side to move. Against the engine it is
// refused while the engine is on move.
func (s *Session) PlayHuman(column int) (domain.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playHumanLocked(column)
}

// PlayEngine searches the current position for the side to move and plays
// the chosen column.
func (s *Session) PlayEngine(ctx context.Context) (domain.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playEngineLocked(ctx)
}

// PlayTurn is a human move followed, against the engine, by the engine's
// reply when the game is still going. The moves actually played are
// returned in order.
func (s *Session) PlayTurn(ctx context.Context, column int) ([]domain.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	human, err := s.playHumanLocked(column)
	if err != nil {
		return nil, err
	}
	moves := []domain.Move{human}

	if s.engineToMoveLocked() {
		reply, err := s.playEngineLocked(ctx)
		if err != nil {
			return moves, err
		}
		moves = append(moves, reply)
	}
	return moves, nil
}

// CheckOutcome is the winner check for the last move played.
func (s *Session) CheckOutcome() domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Game.Outcome()
}

// EngineToMove reports whether the engine owns the next move.
func (s *Session) EngineToMove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engineToMoveLocked()
}

// Reset starts a new game on the same session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Game.Reset()
	s.lastResult = nil
	s.LastActivity = time.Now()
	log.Info().Str("game", s.ID).Msg("[GAME] New game started on session")
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastActivity
}

func (s *Session) engineToMoveLocked() bool {
	return s.Options.Mode == ModeVsEngine &&
		!s.Game.IsFinished() &&
		s.Game.Turn() == s.Options.EnginePlayer
}

func (s *Session) playHumanLocked(column int) (domain.Move, error) {
	if s.Game.IsFinished() {
		return domain.Move{}, errors.Wrapf(domain.ErrGameOver, "game %s", s.ID)
	}
	if s.Options.Mode == ModeVsEngine && s.Game.Turn() == s.Options.EnginePlayer {
		return domain.Move{}, errors.Wrapf(domain.ErrNotYourTurn, "game %s", s.ID)
	}

	move, err := s.Game.MakeMove(column)
	if err != nil {
		return domain.Move{}, errors.Wrapf(err, "game %s: column %d", s.ID, column)
	}
	s.LastActivity = time.Now()

	log.Debug().Str("game", s.ID).Int("player", int(move.Player)).Int("column", move.Column).
		Int("row", move.Row).Msg("[GAME] Human move")
	s.logOutcome()
	return move, nil
}

func (s *Session) playEngineLocked(ctx context.Context) (domain.Move, error) {
	if s.Game.IsFinished() {
		return domain.Move{}, errors.Wrapf(domain.ErrGameOver, "game %s", s.ID)
	}
	side := s.Game.Turn()
	if s.Options.Mode == ModeVsEngine && side != s.Options.EnginePlayer {
		return domain.Move{}, errors.Wrapf(domain.ErrNotYourTurn, "game %s: engine plays %d", s.ID, s.Options.EnginePlayer)
	}

	res, err := s.searcher.BestMove(ctx, &s.Game.Board, s.Options.Depth, side)
	if err != nil {
		return domain.Move{}, errors.Wrapf(err, "game %s: engine search", s.ID)
	}

	move, err := s.Game.MakeMove(res.Column)
	if err != nil {
		return domain.Move{}, errors.Wrapf(err, "game %s: engine column %d", s.ID, res.Column)
	}
	s.lastResult = &res
	s.LastActivity = time.Now()

	log.Info().Str("game", s.ID).Int("player", int(side)).Int("column", move.Column).
		Int("score", res.Score).Msg("[BOT] Engine move")
	s.logOutcome()
	return move, nil
}

func (s *Session) logOutcome() {
	switch s.Game.Status {
	case domain.StatusWon:
		log.Info().Str("game", s.ID).Int("winner", int(s.Game.Winner)).Int("moves", s.Game.MoveCount).Msg("[GAME] Game won")
	case domain.StatusDraw:
		log.Info().Str("game", s.ID).Int("moves", s.Game.MoveCount).Msg("[GAME] Game drawn")
	}
}
