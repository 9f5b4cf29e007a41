package game

import (
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

// Snapshot is everything a client needs to draw the game. It shares no
// memory with the session.
type Snapshot struct {
	GameID       string            `json:"gameId"`
	Mode         Mode              `json:"mode"`
	EnginePlayer domain.PlayerID   `json:"enginePlayer"`
	Depth        int               `json:"depth"`
	Board        [][]int           `json:"board"`
	Turn         domain.PlayerID   `json:"turn"`
	Status       domain.GameStatus `json:"status"`
	Winner       domain.PlayerID   `json:"winner,omitempty"`
	LastMove     *domain.Move      `json:"lastMove,omitempty"`
	MoveCount    int               `json:"moveCount"`
	LegalColumns []int             `json:"legalColumns"`
	EngineScore  *int              `json:"engineScore,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:       s.ID,
		Mode:         s.Options.Mode,
		EnginePlayer: s.Options.EnginePlayer,
		Depth:        s.Options.Depth,
		Board:        s.Game.Board.Cells(),
		Turn:         s.Game.Turn(),
		Status:       s.Game.Status,
		Winner:       s.Game.Winner,
		MoveCount:    s.Game.MoveCount,
		LegalColumns: []int{},
		CreatedAt:    s.CreatedAt,
	}
	if !s.Game.IsFinished() {
		snap.LegalColumns = s.Game.Board.LegalColumns()
	}
	if s.Game.LastMove != nil {
		last := *s.Game.LastMove
		snap.LastMove = &last
	}
	if s.lastResult != nil {
		score := s.lastResult.Score
		snap.EngineScore = &score
	}
	return snap
}
