package bot

import (
	"fmt"
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultDepth is how many plies the engine looks ahead.
	DefaultDepth = 8
	// Infinity bounds every score the evaluator can produce.
	Infinity = 1 << 30
)

// Result is the column picked for the engine and the score it was given.
type Result struct {
	Column int `json:"column"`
	Score  int `json:"score"`
}

// Engine runs a fixed-depth minimax search with alpha-beta pruning for Side.
type Engine struct {
	Depth int
	Side  domain.PlayerID
}

func NewEngine(depth int, side domain.PlayerID) *Engine {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Engine{Depth: depth, Side: side}
}

// BestMove searches the position with Side to move and returns the best
// column found. The caller's board is never modified: the search runs on
// its own copy and leaves that copy exactly as it found it.
func (e *Engine) BestMove(board *domain.Board) (Result, error) {
	if len(LegalColumns(board)) == 0 {
		return Result{}, domain.ErrNoLegalMove
	}

	start := time.Now()
	root := board.WithTurn(e.Side)
	work := root
	s := &search{
		line:   line{board: &work},
		side:   e.Side,
		depth:  e.Depth,
		column: -1,
	}

	score := s.maxNode(e.Depth, -Infinity, Infinity)

	if len(s.line.moves) != 0 || work != root {
		panic(fmt.Sprintf("bot: search left %d moves on the board", len(s.line.moves)))
	}
	if s.column < 0 {
		// only reachable if every root move scored -Infinity
		s.column = LegalColumns(&work)[0]
	}

	log.Debug().
		Int("side", int(e.Side)).
		Int("depth", e.Depth).
		Int("column", s.column).
		Int("score", score).
		Int("nodes", s.nodes).
		Dur("elapsed", time.Since(start)).
		Msg("[BOT] search finished")

	return Result{Column: s.column, Score: score}, nil
}

// line is the stack of moves the search has made on its board. Moves come
// off in the reverse order they went on.
type line struct {
	board *domain.Board
	moves []domain.Move
}

func (l *line) push(column int) {
	m, err := l.board.Apply(column)
	if err != nil {
		panic(fmt.Sprintf("bot: apply legal column %d: %v", column, err))
	}
	l.moves = append(l.moves, m)
}

func (l *line) pop() {
	last := len(l.moves) - 1
	l.board.Undo(l.moves[last])
	l.moves = l.moves[:last]
}

// search holds the state of a single BestMove call.
type search struct {
	line   line
	side   domain.PlayerID
	depth  int // depth of the root ply
	column int // best column found at the root
	nodes  int
}

// try plays column, scores the resulting position with next and takes the
// move back on the way out, however next returns.
func (s *search) try(column int, next func() int) int {
	s.line.push(column)
	defer s.line.pop()
	return next()
}

func (s *search) leaf(depth int, columns []int) bool {
	return depth == 0 || len(columns) == 0
}

func (s *search) maxNode(depth, alpha, beta int) int {
	s.nodes++
	columns := LegalColumns(s.line.board)
	if s.leaf(depth, columns) {
		return Evaluate(s.line.board, s.side)
	}

	best := alpha
	for _, col := range columns {
		value := s.try(col, func() int {
			return s.minNode(depth-1, best, beta)
		})

		if value > best {
			best = value
			if depth == s.depth {
				s.column = col
			}
			if best >= beta {
				break // beta cutoff
			}
		}
	}
	return best
}

func (s *search) minNode(depth, alpha, beta int) int {
	s.nodes++
	columns := LegalColumns(s.line.board)
	if s.leaf(depth, columns) {
		return Evaluate(s.line.board, s.side)
	}

	best := beta
	for _, col := range columns {
		value := s.try(col, func() int {
			return s.maxNode(depth-1, alpha, best)
		})

		if value < best {
			best = value
			if best <= alpha {
				break // alpha cutoff
			}
		}
	}
	return best
}
