package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseBoard reads a position written as Rows lines, top row first, one
// character per cell: '.' for empty, 'X' or '1' for Player1, 'O' or '2'
// for Player2. Spaces are ignored so the output of Board.String (minus the
// header line) can be fed back in.
func ParseBoard(rows ...string) (Board, error) {
	if len(rows) != Rows {
		return Board{}, errors.Wrapf(ErrInvalidBoard, "expected %d rows, got %d", Rows, len(rows))
	}

	grid := make([][]int, Rows)
	for r, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		if len(line) != Columns {
			return Board{}, errors.Wrapf(ErrInvalidBoard, "row %d has %d cells", r, len(line))
		}
		grid[r] = make([]int, Columns)
		for c := 0; c < Columns; c++ {
			switch line[c] {
			case '.', '0':
				grid[r][c] = int(Empty)
			case 'X', 'x', '1':
				grid[r][c] = int(Player1)
			case 'O', 'o', '2':
				grid[r][c] = int(Player2)
			default:
				return Board{}, errors.Wrapf(ErrInvalidBoard, "unknown cell %q at row %d column %d", line[c], r, c)
			}
		}
	}
	return BoardFromCells(grid)
}

// BoardFromCells rebuilds a board from the layout produced by Board.Cells.
// Pieces must rest on each other and the piece counts must be reachable by
// alternating moves starting with Player1, which also decides the turn.
func BoardFromCells(grid [][]int) (Board, error) {
	if len(grid) != Rows {
		return Board{}, errors.Wrapf(ErrInvalidBoard, "expected %d rows, got %d", Rows, len(grid))
	}
	for r := range grid {
		if len(grid[r]) != Columns {
			return Board{}, errors.Wrapf(ErrInvalidBoard, "row %d has %d cells", r, len(grid[r]))
		}
	}

	b := NewBoard()
	counts := map[PlayerID]int{}
	for c := 0; c < Columns; c++ {
		// walk the column bottom up, once a gap is seen nothing may follow
		gap := false
		for r := Rows - 1; r >= 0; r-- {
			p := PlayerID(grid[r][c])
			switch {
			case p == Empty:
				gap = true
			case !p.Valid():
				return Board{}, errors.Wrapf(ErrInvalidBoard, "unknown cell value %d at row %d column %d", grid[r][c], r, c)
			case gap:
				return Board{}, errors.Wrapf(ErrInvalidBoard, "floating piece at row %d column %d", r, c)
			default:
				b.cells[r][c] = p
				b.height[c]++
				counts[p]++
			}
		}
	}

	switch counts[Player1] - counts[Player2] {
	case 0:
		b.turn = Player1
	case 1:
		b.turn = Player2
	default:
		return Board{}, errors.Wrapf(ErrInvalidBoard, "piece counts %d/%d cannot come from alternating moves",
			counts[Player1], counts[Player2])
	}
	return b, nil
}
