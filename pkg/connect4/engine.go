package connect4

import (
	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

// Minimax engine playing connect-four, moves are the column indices
type Engine = minimax.Engine[int, Cell]

// Create new engine with the window heuristic for given rules
func NewEngine(rules Rules, limits *minimax.Limits) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return minimax.NewEngine[int, Cell](rules, NewWindowHeuristic(rules), limits)
}
