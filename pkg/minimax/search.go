package minimax

import (
	"context"
	"fmt"
)

// State of a single root move evaluation. Each task owns its history buffer,
// so the recursion below can append and truncate it without any locking.
type task[T MoveLike, P PlayerLike] struct {
	ctx       context.Context
	ops       GameOperations[T, P]
	heuristic Heuristic[T, P]
	limits    Limits
	index     int
	move      T
	history   []T
	nodes     uint64
	evals     uint64
}

func newTask[T MoveLike, P PlayerLike](ctx context.Context, e *Engine[T, P], index int, move T, history []T) *task[T, P] {
	// Private copy with the root move appended, room for the whole line up to the cutoff
	buf := make([]T, len(history), len(history)+e.limits.Depth+2)
	copy(buf, history)

	return &task[T, P]{
		ctx:       ctx,
		ops:       e.ops,
		heuristic: e.heuristic,
		limits:    e.limits,
		index:     index,
		move:      move,
		history:   append(buf, move),
	}
}

// Score the root move from the 'player' perspective, 'player' being the one who just played it
func (t *task[T, P]) run(player P) (score Score, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, t.fail(KindPanic, fmt.Errorf("%v", r))
		}
	}()

	won, err := t.wins(player)
	if err != nil {
		return 0, err
	}
	if won {
		return t.limits.WinScore, nil
	}
	return t.minimize(t.ops.Opponent(player), rootDepth)
}

// Best score 'toMove' can achieve from the current history
func (t *task[T, P]) maximize(toMove P, depth int) (Score, error) {
	if depth > t.limits.Depth {
		return t.evaluate(toMove)
	}

	moves, err := t.expand()
	if err != nil || len(moves) == 0 {
		return 0, err
	}

	best := -t.limits.Inf
	for _, move := range moves {
		t.push(move)
		score, err := t.maxBranch(toMove, depth)
		t.pop()

		if err != nil {
			return 0, err
		}
		if score > best {
			best = score
		}
	}

	return best, nil
}

func (t *task[T, P]) maxBranch(toMove P, depth int) (Score, error) {
	won, err := t.wins(toMove)
	if err != nil {
		return 0, err
	}
	if won {
		return t.limits.WinScore, nil
	}
	return t.minimize(t.ops.Opponent(toMove), depth+1)
}

// Opponent's turn, worst score for the maximizing player
func (t *task[T, P]) minimize(toMove P, depth int) (Score, error) {
	if depth > t.limits.Depth {
		return t.evaluate(toMove)
	}

	moves, err := t.expand()
	if err != nil || len(moves) == 0 {
		return 0, err
	}

	best := t.limits.Inf
	for _, move := range moves {
		t.push(move)
		score, err := t.minBranch(toMove, depth)
		t.pop()

		if err != nil {
			return 0, err
		}
		if score < best {
			best = score
		}
	}

	return best, nil
}

func (t *task[T, P]) minBranch(toMove P, depth int) (Score, error) {
	won, err := t.wins(toMove)
	if err != nil {
		return 0, err
	}
	if won {
		return -t.limits.WinScore, nil
	}
	return t.maximize(t.ops.Opponent(toMove), depth+1)
}

func (t *task[T, P]) push(move T) {
	t.history = append(t.history, move)
}

func (t *task[T, P]) pop() {
	t.history = t.history[:len(t.history)-1]
}

// Legal moves at the current history, stops early if the search was cancelled
func (t *task[T, P]) expand() ([]T, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}

	t.nodes++
	moves, err := t.ops.LegalMoves(t.history)
	if err != nil {
		return nil, t.fail(KindMoveGen, err)
	}
	return moves, nil
}

// Whether 'player' has won with the last move of the history
func (t *task[T, P]) wins(player P) (bool, error) {
	winner, ok, err := t.ops.Winner(t.history)
	if err != nil {
		return false, t.fail(KindWinner, err)
	}
	return ok && winner == player, nil
}

func (t *task[T, P]) evaluate(toMove P) (Score, error) {
	t.evals++
	score, err := t.heuristic.Evaluate(t.history, toMove)
	if err != nil {
		return 0, t.fail(KindHeuristic, err)
	}

	if score <= -t.limits.Inf || score >= t.limits.Inf {
		return 0, t.fail(KindHeuristic, fmt.Errorf("%w: %d not within (-%d, %d)",
			ErrScoreOutOfRange, score, t.limits.Inf, t.limits.Inf))
	}
	return score, nil
}

func (t *task[T, P]) fail(kind ErrorKind, err error) error {
	return &SearchError{Kind: kind, RootIndex: t.index, RootMove: t.move, Err: err}
}

func (t *task[T, P]) line(score Score) RootLine[T] {
	return RootLine[T]{
		Index: t.index,
		Move:  t.move,
		Score: score,
		Nodes: t.nodes,
		Evals: t.evals,
	}
}
