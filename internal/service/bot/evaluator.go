package bot

import (
	"github.com/iamasit07/connect4-engine/internal/domain"
)

// chainValues[k] is what a window holding k pieces of a single player is worth.
var chainValues = [domain.ToWin + 1]int{0, 1, 10, 50, 1000}

// Every window of ToWin cells is walked from exactly one anchor: its left
// end for rows, its bottom end for columns and both diagonals.
var windowAxes = [4][2]int{
	{0, 1},   // horizontal, to the right
	{-1, 0},  // vertical, upwards
	{-1, 1},  // diagonal, up and to the right
	{-1, -1}, // diagonal, up and to the left
}

// Score rates the position from Player1's point of view by summing the
// value of every window that only one player has pieces in. Positive
// favours Player1, negative favours Player2.
func Score(board *domain.Board) int {
	score := 0
	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			for _, axis := range windowAxes {
				dRow, dCol := axis[0], axis[1]
				if !isInBounds(row+dRow*(domain.ToWin-1), col+dCol*(domain.ToWin-1)) {
					continue
				}
				score += windowScore(board, row, col, dRow, dCol)
			}
		}
	}
	return score
}

// Evaluate is Score seen from side.
func Evaluate(board *domain.Board, side domain.PlayerID) int {
	if side == domain.Player2 {
		return -Score(board)
	}
	return Score(board)
}

func windowScore(board *domain.Board, row, col, dRow, dCol int) int {
	ones, twos := 0, 0
	for i := 0; i < domain.ToWin; i++ {
		switch board.At(row+dRow*i, col+dCol*i) {
		case domain.Player1:
			ones++
		case domain.Player2:
			twos++
		}
	}

	switch {
	case ones > 0 && twos > 0:
		return 0 // blocked
	case ones > 0:
		return chainValues[ones]
	case twos > 0:
		return -chainValues[twos]
	}
	return 0
}

// Helper: check if position is within board bounds
func isInBounds(row, col int) bool {
	return row >= 0 && row < domain.Rows && col >= 0 && col < domain.Columns
}
