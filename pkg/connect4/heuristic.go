package connect4

import (
	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

// Weights of the window patterns, see WindowHeuristic
type Weights struct {
	// Line already connected, must stay below the engine's win score
	Win minimax.Score
	// Connect-1 own pieces and one empty cell
	Three minimax.Score
	// Connect-2 own pieces and two empty cells
	Two minimax.Score
	// Connect-1 opponent pieces and one empty cell
	OpponentThree minimax.Score
	// Every piece in the center column
	Center minimax.Score
}

func DefaultWeights() Weights {
	return Weights{
		Win:           100_000,
		Three:         50,
		Two:           10,
		OpponentThree: 80,
		Center:        6,
	}
}

// Scores every window of 'Connect' consecutive cells on the board, from the
// perspective of the player to move
type WindowHeuristic struct {
	Rules   Rules
	Weights Weights
}

func NewWindowHeuristic(rules Rules) WindowHeuristic {
	return WindowHeuristic{Rules: rules, Weights: DefaultWeights()}
}

func (h WindowHeuristic) Evaluate(history []int, toMove Cell) (minimax.Score, error) {
	board, err := h.Rules.Board(history)
	if err != nil {
		return 0, err
	}

	if winner, ok := board.Winner(); ok {
		if winner == toMove {
			return h.Weights.Win, nil
		}
		return -h.Weights.Win, nil
	}

	opponent := h.Rules.Opponent(toMove)
	score := minimax.Score(0)

	// Center column control
	center := h.Rules.Width / 2
	for row := 0; row < h.Rules.Height; row++ {
		switch board.At(center, row) {
		case toMove:
			score += h.Weights.Center
		case opponent:
			score -= h.Weights.Center
		}
	}

	for row := 0; row < h.Rules.Height; row++ {
		for col := 0; col < h.Rules.Width; col++ {
			for _, dir := range directions {
				if own, other, ok := h.window(board, col, row, dir[0], dir[1], toMove); ok {
					score += h.scoreWindow(own, other)
				}
			}
		}
	}

	return score, nil
}

// Largest absolute value Evaluate can return for these rules, the engine's
// Inf must be above it
func (h WindowHeuristic) Bound() minimax.Score {
	windows := 0
	for row := 0; row < h.Rules.Height; row++ {
		for col := 0; col < h.Rules.Width; col++ {
			for _, dir := range directions {
				endCol := col + dir[0]*(h.Rules.Connect-1)
				endRow := row + dir[1]*(h.Rules.Connect-1)
				if endCol >= 0 && endCol < h.Rules.Width && endRow >= 0 && endRow < h.Rules.Height {
					windows++
				}
			}
		}
	}

	perWindow := max(h.Weights.Three, h.Weights.Two, h.Weights.OpponentThree)
	positional := minimax.Score(windows)*perWindow + minimax.Score(h.Rules.Height)*h.Weights.Center
	return max(h.Weights.Win, positional)
}

// Count pieces of 'player' and its opponent in the window starting at (col, row),
// ok is false if the window doesn't fit on the board
func (h WindowHeuristic) window(board *Board, col, row, dc, dr int, player Cell) (own, other int, ok bool) {
	endCol := col + dc*(h.Rules.Connect-1)
	endRow := row + dr*(h.Rules.Connect-1)
	if endCol < 0 || endCol >= h.Rules.Width || endRow < 0 || endRow >= h.Rules.Height {
		return 0, 0, false
	}

	for i := 0; i < h.Rules.Connect; i++ {
		switch board.At(col+dc*i, row+dr*i) {
		case Empty:
		case player:
			own++
		default:
			other++
		}
	}
	return own, other, true
}

func (h WindowHeuristic) scoreWindow(own, other int) minimax.Score {
	empty := h.Rules.Connect - own - other
	switch {
	case own == h.Rules.Connect-1 && empty == 1:
		return h.Weights.Three
	case own == h.Rules.Connect-2 && empty == 2:
		return h.Weights.Two
	case other == h.Rules.Connect-1 && empty == 1:
		return -h.Weights.OpponentThree
	}
	return 0
}
