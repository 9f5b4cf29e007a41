package domain

// Game is a board together with how it got there: the outcome after the
// last move, and the last move itself so the UI can animate it.
type Game struct {
	Board     Board
	Status    GameStatus
	Winner    PlayerID
	LastMove  *Move
	MoveCount int
}

func NewGame() *Game {
	return &Game{
		Board:  NewBoard(),
		Status: StatusActive,
		Winner: Empty,
	}
}

// MakeMove drops a piece for the side to move and updates the outcome.
func (g *Game) MakeMove(column int) (Move, error) {
	if g.IsFinished() {
		return Move{}, ErrGameOver
	}

	move, err := g.Board.Apply(column)
	if err != nil {
		return Move{}, err
	}

	g.MoveCount++
	g.LastMove = &move

	outcome := g.Board.Winner(move)
	g.Status = outcome.Status
	g.Winner = outcome.Winner

	return move, nil
}

// Outcome is the winner check for the last move played. A game with no
// moves yet is active.
func (g *Game) Outcome() Outcome {
	return Outcome{Status: g.Status, Winner: g.Winner}
}

func (g *Game) Turn() PlayerID {
	return g.Board.Turn()
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

func (g *Game) Reset() {
	*g = *NewGame()
}
