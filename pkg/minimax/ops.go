package minimax

// Game rules consumed by the engine. Implementations are called concurrently from
// independent root tasks, so they must not keep any shared mutable state between calls,
// and must not retain or modify the history they are given.
type GameOperations[T MoveLike, P PlayerLike] interface {
	// Ordered legal moves after given history, empty exactly when the position is terminal.
	// Must be deterministic: the same history always yields the same order.
	LegalMoves(history []T) ([]T, error)
	// Winner of the position reached by given history, ok is false if there is none
	Winner(history []T) (winner P, ok bool, err error)
	// The other player
	Opponent(player P) P
}

// Positional evaluation, called only after the search depth limit is exceeded.
// Larger score is better for 'toMove'.
type Heuristic[T MoveLike, P PlayerLike] interface {
	Evaluate(history []T, toMove P) (Score, error)
}

// Adapter to use plain functions as a Heuristic
type HeuristicFunc[T MoveLike, P PlayerLike] func(history []T, toMove P) (Score, error)

func (f HeuristicFunc[T, P]) Evaluate(history []T, toMove P) (Score, error) {
	return f(history, toMove)
}
