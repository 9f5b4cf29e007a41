package domain

import (
	"fmt"
	"strings"
)

// Board is the 6x7 grid plus the side to move. Row 0 is the top row and
// Rows-1 the bottom one, pieces fall towards higher row indexes.
//
// Board is a plain value: copying it gives an independent position and two
// boards compare equal with == when every cell and the turn match.
type Board struct {
	cells  [Rows][Columns]PlayerID
	height [Columns]int
	turn   PlayerID
}

func NewBoard() Board {
	return Board{turn: Player1}
}

// Reset clears every cell and gives the move back to Player1.
func (b *Board) Reset() {
	*b = NewBoard()
}

func (b *Board) Turn() PlayerID {
	return b.turn
}

// WithTurn returns a copy of the board with p to move.
func (b Board) WithTurn(p PlayerID) Board {
	b.turn = p
	return b
}

func (b *Board) At(row, column int) PlayerID {
	if !isInBounds(row, column) {
		return Empty
	}
	return b.cells[row][column]
}

// Height is the number of pieces already dropped in column.
func (b *Board) Height(column int) int {
	if column < 0 || column >= Columns {
		return 0
	}
	return b.height[column]
}

func (b *Board) MoveCount() int {
	n := 0
	for _, h := range b.height {
		n += h
	}
	return n
}

func IsValidColumn(column int) bool {
	return column >= 0 && column < Columns
}

func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b.height[c] < Rows {
			return false
		}
	}
	return true
}

// LegalColumns lists the columns that still have an empty cell, lowest first.
func (b *Board) LegalColumns() []int {
	moves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.height[col] < Rows {
			moves = append(moves, col)
		}
	}
	return moves
}

// Apply drops the piece of the side to move into column and passes the turn.
func (b *Board) Apply(column int) (Move, error) {
	return b.Place(column, b.turn)
}

// Place drops a piece for player regardless of whose turn it is. The turn
// goes to player's opponent afterwards, exactly as if player had moved.
func (b *Board) Place(column int, player PlayerID) (Move, error) {
	if !IsValidColumn(column) {
		return Move{}, ErrInvalidColumn
	}
	if b.height[column] >= Rows {
		return Move{}, ErrColumnFull
	}

	// the lowest empty row sits right above the current stack
	row := Rows - 1 - b.height[column]
	b.cells[row][column] = player
	b.height[column]++
	b.turn = player.Opponent()

	return Move{Column: column, Row: row, Player: player}, nil
}

// Undo takes back m, which must be the last move applied to the board.
// Anything else is a bug in the caller and panics.
func (b *Board) Undo(m Move) {
	if !IsValidColumn(m.Column) || b.height[m.Column] == 0 {
		panic(fmt.Sprintf("domain: undo %+v on an empty column", m))
	}
	top := Rows - b.height[m.Column]
	if m.Row != top || b.cells[m.Row][m.Column] != m.Player {
		panic(fmt.Sprintf("domain: undo %+v is not the last move of column %d", m, m.Column))
	}

	b.cells[m.Row][m.Column] = Empty
	b.height[m.Column]--
	b.turn = m.Player
}

var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// Winner looks at the four lines through last. It reports a win for
// last.Player when any of them holds ToWin pieces in a row, a draw when
// the grid is full and nothing has been won, and StatusActive otherwise.
func (b *Board) Winner(last Move) Outcome {
	if last.Player.Valid() && isInBounds(last.Row, last.Column) {
		for _, axis := range axes {
			dRow, dCol := axis[0], axis[1]
			count := 1 +
				b.countInDirection(last.Row, last.Column, dRow, dCol, last.Player) +
				b.countInDirection(last.Row, last.Column, -dRow, -dCol, last.Player)
			if count >= ToWin {
				return Outcome{Status: StatusWon, Winner: last.Player}
			}
		}
	}

	if b.IsFull() {
		return Outcome{Status: StatusDraw}
	}
	return Outcome{Status: StatusActive}
}

// countInDirection counts player's pieces next to (row, column) walking
// by (deltaRow, deltaCol), not including the starting cell
func (b *Board) countInDirection(row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for isInBounds(r, c) && b.cells[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// Cells copies the grid out as plain ints, top row first.
func (b *Board) Cells() [][]int {
	out := make([][]int, Rows)
	for r := range out {
		out[r] = make([]int, Columns)
		for c := range out[r] {
			out[r][c] = int(b.cells[r][c])
		}
	}
	return out
}

// Code is a compact key for the position: one digit per cell, top row first.
func (b *Board) Code() string {
	var sb strings.Builder
	sb.Grow(Rows * Columns)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			sb.WriteByte(byte('0' + b.cells[r][c]))
		}
	}
	return sb.String()
}

func (b Board) String() string {
	var sb strings.Builder
	for c := 0; c < Columns; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(cellRune(b.cells[r][c]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellRune(p PlayerID) byte {
	switch p {
	case Player1:
		return 'X'
	case Player2:
		return 'O'
	}
	return '.'
}

func isInBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}
