package domain

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other side. Empty has no opponent and is returned as is.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// Outcome is the result of looking at the board after a move.
// Winner is only set when Status is StatusWon.
type Outcome struct {
	Status GameStatus
	Winner PlayerID
}

func (o Outcome) IsFinished() bool {
	return o.Status == StatusWon || o.Status == StatusDraw
}

// Move is a piece that was dropped. It only makes sense relative to the
// board it was applied to.
type Move struct {
	Column int      `json:"column"`
	Row    int      `json:"row"`
	Player PlayerID `json:"player"`
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn Error = "invalid column"
	ErrColumnFull    Error = "column is full"
	ErrNoLegalMove   Error = "no legal move"
	ErrInvalidBoard  Error = "invalid board"
	ErrGameOver      Error = "game is already over"

	ErrNotYourTurn     Error = "not your turn"
	ErrSessionNotFound Error = "session not found"
	ErrInvalidOptions  Error = "invalid game options"
)
