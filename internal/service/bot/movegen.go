package bot

import "github.com/iamasit07/connect4-engine/internal/domain"

// LegalColumns lists the columns a piece can still be dropped into, lowest
// first. An empty result means the board is full.
func LegalColumns(board *domain.Board) []int {
	return board.LegalColumns()
}
