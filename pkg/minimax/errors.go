package minimax

import (
	"errors"
	"fmt"
)

var (
	// Returned by NextMove and Search when there are no legal root moves
	ErrGameOver = errors.New("the game is already over")

	ErrInvalidLimits = errors.New("invalid limits")

	// The heuristic returned a value outside of (-Inf, Inf)
	ErrScoreOutOfRange = errors.New("score out of range")
)

// Which collaborator failed during the search
type ErrorKind int

const (
	KindMoveGen ErrorKind = iota
	KindWinner
	KindHeuristic
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindMoveGen:
		return "move generation"
	case KindWinner:
		return "winner check"
	case KindHeuristic:
		return "heuristic"
	case KindPanic:
		return "panic"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Failure inside a root task, RootIndex is -1 if the root enumeration itself failed
type SearchError struct {
	Kind      ErrorKind
	RootIndex int
	RootMove  any
	Err       error
}

func (e *SearchError) Error() string {
	if e.RootIndex < 0 {
		return fmt.Sprintf("minimax: %s failed at the root: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("minimax: %s failed in root task %d (move %v): %v", e.Kind, e.RootIndex, e.RootMove, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
