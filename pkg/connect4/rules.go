package connect4

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrInvalidRules = errors.New("invalid rules")

// Size of the grid and the number of pieces in a line needed to win.
// Rules is stateless, every call replays the given move history, so the same
// value can be used from many search goroutines at once.
type Rules struct {
	Width   int
	Height  int
	Connect int
}

// Classic 7x6 board, 4 in a row
func Standard() Rules {
	return Rules{Width: 7, Height: 6, Connect: 4}
}

func (r Rules) Validate() error {
	if r.Width < 1 || r.Height < 1 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidRules, r.Width, r.Height)
	}
	if r.Connect < 2 || (r.Connect > r.Width && r.Connect > r.Height) {
		return fmt.Errorf("%w: can't connect %d on a %dx%d board", ErrInvalidRules, r.Connect, r.Width, r.Height)
	}
	return nil
}

// Replay the history from the empty board, red moving first
func (r Rules) Board(history []int) (*Board, error) {
	board := newBoard(r)
	for i, col := range history {
		if _, err := board.Drop(col, board.Turn()); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return board, nil
}

// Columns which aren't full yet, in ascending order. The game is over once
// someone has won, so no moves are returned for won positions either.
func (r Rules) LegalMoves(history []int) ([]int, error) {
	board, err := r.Board(history)
	if err != nil {
		return nil, err
	}
	if _, won := board.Winner(); won {
		return nil, nil
	}

	return lo.Filter(lo.Range(r.Width), func(col int, _ int) bool {
		return board.Height(col) < r.Height
	}), nil
}

func (r Rules) Winner(history []int) (Cell, bool, error) {
	board, err := r.Board(history)
	if err != nil {
		return Empty, false, err
	}
	winner, ok := board.Winner()
	return winner, ok, nil
}

func (r Rules) Opponent(player Cell) Cell {
	switch player {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return Empty
}

// Player whose turn it is after given history
func (r Rules) PlayerToMove(history []int) Cell {
	if len(history)%2 == 0 {
		return Red
	}
	return Yellow
}

// Parse comma or space separated list of columns, like "3,3,4"
func ParseMoves(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	moves := make([]int, 0, len(fields))
	for _, field := range fields {
		col, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid move %q: %w", field, err)
		}
		moves = append(moves, col)
	}
	return moves, nil
}

// Format the history back to the ParseMoves format
func FormatMoves(history []int) string {
	return strings.Join(lo.Map(history, func(col int, _ int) string {
		return strconv.Itoa(col)
	}), ",")
}
