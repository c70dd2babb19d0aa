package minimax

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Result of the search, Lines are in the root enumeration order
type SearchResult[T MoveLike] struct {
	BestMove  T
	BestScore Score
	Lines     []RootLine[T]
	Nodes     uint64
	Evals     uint64
	TimeMs    int
}

func (r SearchResult[T]) String() string {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "bestmove %v score %d nodes %d evals %d time %d lines [",
		r.BestMove, r.BestScore, r.Nodes, r.Evals, r.TimeMs)
	for i, line := range r.Lines {
		if i > 0 {
			builder.WriteByte(' ')
		}
		fmt.Fprintf(&builder, "%v:%d", line.Move, line.Score)
	}
	builder.WriteByte(']')
	return builder.String()
}

// Bounded minimax engine, evaluating every root move in its own goroutine.
// The engine keeps no state between searches, so it can be shared.
type Engine[T MoveLike, P PlayerLike] struct {
	ops       GameOperations[T, P]
	heuristic Heuristic[T, P]
	limits    Limits
	listener  *StatsListener[T]
	mu        sync.Mutex // serializes listener calls
}

// Create new engine, the limits are copied and can't be changed later
func NewEngine[T MoveLike, P PlayerLike](ops GameOperations[T, P], heuristic Heuristic[T, P], limits *Limits) (*Engine[T, P], error) {
	if ops == nil || heuristic == nil {
		return nil, errors.New("minimax: game operations and heuristic are required")
	}
	if limits == nil {
		limits = DefaultLimits()
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	return &Engine[T, P]{
		ops:       ops,
		heuristic: heuristic,
		limits:    *limits,
		listener:  &StatsListener[T]{},
	}, nil
}

func (e *Engine[T, P]) Limits() Limits {
	return e.limits
}

func (e *Engine[T, P]) Name() string {
	return fmt.Sprintf("minimax(depth=%d)", e.limits.Depth)
}

// Copy of the current callbacks, use SetListener to change them
func (e *Engine[T, P]) StatsListener() StatsListener[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.listener
}

func (e *Engine[T, P]) SetListener(listener StatsListener[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	*e.listener = listener
}

// Best move for 'player' after given history. Blocks until every root move is scored.
// Returns ErrGameOver if there are no legal moves, or the first *SearchError
// raised by any of the root tasks.
func (e *Engine[T, P]) NextMove(ctx context.Context, history []T, player P) (T, error) {
	result, err := e.Search(ctx, history, player)
	if err != nil {
		var zero T
		return zero, err
	}
	return result.BestMove, nil
}

// Run the search and return the full result, see NextMove
func (e *Engine[T, P]) Search(ctx context.Context, history []T, player P) (SearchResult[T], error) {
	start := time.Now()

	moves, err := e.ops.LegalMoves(history)
	if err != nil {
		return SearchResult[T]{}, &SearchError{Kind: KindMoveGen, RootIndex: -1, Err: err}
	}
	if len(moves) == 0 {
		return SearchResult[T]{}, ErrGameOver
	}

	lines := make([]RootLine[T], len(moves))
	g, gctx := errgroup.WithContext(ctx)
	if e.limits.NThreads != UnlimitedThreads {
		g.SetLimit(e.limits.NThreads)
	}

	for i, move := range moves {
		t := newTask(gctx, e, i, move, history)

		g.Go(func() error {
			score, err := t.run(player)
			if err != nil {
				log.Debug().Int("root", t.index).Err(err).Msg("root-task-failed")
				return err
			}

			// Every task writes only its own slot
			lines[t.index] = t.line(score)
			log.Debug().Int("root", t.index).Interface("move", t.move).
				Int("score", int(score)).Uint64("nodes", t.nodes).Msg("root-scored")
			e.invokeRootListener(lines[t.index])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var searchErr *SearchError
		if errors.As(err, &searchErr) {
			return SearchResult[T]{}, err
		}
		return SearchResult[T]{}, fmt.Errorf("minimax: search interrupted: %w", err)
	}

	result := e.reduce(lines)
	result.TimeMs = int(time.Since(start).Milliseconds())

	log.Info().Interface("move", result.BestMove).Int("score", int(result.BestScore)).
		Int("candidates", len(lines)).Uint64("nodes", result.Nodes).
		Int("time-ms", result.TimeMs).Msg("next-move")
	e.invokeStopListener(result)
	return result, nil
}

// Pick the first root line with strictly greatest score, in the enumeration order
func (e *Engine[T, P]) reduce(lines []RootLine[T]) SearchResult[T] {
	result := SearchResult[T]{
		BestScore: -e.limits.Inf,
		Lines:     lines,
	}

	for i := range lines {
		result.Nodes += lines[i].Nodes
		result.Evals += lines[i].Evals
		if lines[i].Score > result.BestScore {
			result.BestScore = lines[i].Score
			result.BestMove = lines[i].Move
		}
	}
	return result
}

func (e *Engine[T, P]) invokeRootListener(line RootLine[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listener.onRootScored != nil {
		e.listener.onRootScored(line)
	}
}

func (e *Engine[T, P]) invokeStopListener(result SearchResult[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listener.onStop != nil {
		e.listener.onStop(result)
	}
}
