package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

// Plays a uniformly random legal move, a baseline opponent for the engines.
// Safe for concurrent use by the arena workers.
type RandomAgent[T minimax.MoveLike, P minimax.PlayerLike] struct {
	ops minimax.GameOperations[T, P]
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomAgent[T minimax.MoveLike, P minimax.PlayerLike](ops minimax.GameOperations[T, P], seed int64) *RandomAgent[T, P] {
	return &RandomAgent[T, P]{ops: ops, rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomAgent[T, P]) Name() string {
	return "random"
}

func (r *RandomAgent[T, P]) NextMove(_ context.Context, history []T, _ P) (T, error) {
	var zero T
	moves, err := r.ops.LegalMoves(history)
	if err != nil {
		return zero, fmt.Errorf("random agent: %w", err)
	}
	if len(moves) == 0 {
		return zero, minimax.ErrGameOver
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return moves[r.rng.Intn(len(moves))], nil
}
