package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

/*
Arena benchmark subpackage, allows to play a series of games between two
agents, usually two minimax engines with different limits or heuristics.
*/

type VersusArena[T minimax.MoveLike, P minimax.PlayerLike] struct {
	VersusArenaStats
	Player1 Agent[T, P]
	Player2 Agent[T, P]
	// Referee of every game, decides the legal moves and the winner
	Rules minimax.GameOperations[T, P]
	// Side making the first move of an empty history
	FirstSide P
	// Optional starting positions, game i starts from Openings[i % len(Openings)]
	Openings [][]T
	NGames   int
	NThreads int
	// Upper bound on the game length, 0 means no bound
	MaxMoves int
	ctx      context.Context
	group    *errgroup.Group
	listener ListenerLike[T]
	games    atomic.Int32
	mu       sync.Mutex
	lengths  []int
}

func NewVersusArena[T minimax.MoveLike, P minimax.PlayerLike](
	rules minimax.GameOperations[T, P], firstSide P, player1, player2 Agent[T, P],
) *VersusArena[T, P] {
	return &VersusArena[T, P]{
		Player1:   player1,
		Player2:   player2,
		Rules:     rules,
		FirstSide: firstSide,
		NGames:    100,
		NThreads:  2,
		ctx:       context.Background(),
	}
}

func (va *VersusArena[T, P]) WithContext(ctx context.Context) *VersusArena[T, P] {
	va.ctx = ctx
	return va
}

func (va *VersusArena[T, P]) Setup(nGames, nThreads int) *VersusArena[T, P] {
	va.NGames = nGames
	va.NThreads = max(nThreads, 1)
	return va
}

// Start equally distributed work between the workers, returns immediately
func (va *VersusArena[T, P]) Start(listener ListenerLike[T]) {
	if listener == nil {
		listener = DefaultListener[T]{}
	}
	va.listener = listener
	va.VersusArenaStats = VersusArenaStats{}
	va.games.Store(0)
	va.lengths = make([]int, 0, va.NGames)

	nThreads := max(va.NThreads, 1)
	nGames := va.NGames / nThreads
	rest := va.NGames % nThreads

	group, ctx := errgroup.WithContext(va.ctx)
	va.group = group
	for i := range nThreads {
		delta := 0
		if rest > 0 {
			delta = 1
			rest--
		}

		l := listener.Clone()
		group.Go(func() error {
			return va.worker(ctx, i, nGames+delta, l)
		})
	}
}

// Block until every worker is done, returns the summary and the first worker's error
func (va *VersusArena[T, P]) Wait() (VersusSummaryInfo, error) {
	if va.group == nil {
		return VersusSummaryInfo{}, errors.New("arena not started")
	}

	err := va.group.Wait()
	summary := VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          max(va.NThreads, 1),
		P1Name:           va.Player1.Name(),
		P2Name:           va.Player2.Name(),
		GameLengths:      va.gameLengths(),
	}

	if err == nil {
		va.listener.Summary(summary)
	}
	return summary, err
}

// Convenience: Start and Wait
func (va *VersusArena[T, P]) Run(listener ListenerLike[T]) (VersusSummaryInfo, error) {
	va.Start(listener)
	return va.Wait()
}

func (va *VersusArena[T, P]) worker(ctx context.Context, id, nGames int, listener ListenerLike[T]) error {
	localStats := VersusArenaStats{}
	info := VersusWorkerInfo[T]{
		WorkerID: id,
		NGames:   nGames,
		P1Name:   va.Player1.Name(),
		P2Name:   va.Player2.Name(),
	}

	for i := range nGames {
		// Global game number decides who starts, so the sides alternate
		game := int(va.games.Add(1)) - 1
		p1First := game%2 == 0

		first, second := va.Player1, va.Player2
		if !p1First {
			first, second = second, first
		}

		moves, outcome, err := va.playGame(ctx, first, second, va.opening(game), listener, info)
		if err != nil {
			log.Debug().Int("worker", id).Int("game", game).Err(err).Msg("game-failed")
			return err
		}

		result := toAgentResult(outcome, p1First)
		switch result {
		case VersusDraw:
			atomic.AddUint32(&va.draws, 1)
			localStats.draws++
		case VersusPl1Win:
			atomic.AddUint32(&va.p1Wins, 1)
			localStats.p1Wins++
		case VersusPl2Win:
			atomic.AddUint32(&va.p2Wins, 1)
			localStats.p2Wins++
		}

		if !outcome.IsDraw {
			if outcome.FirstPlayerWon {
				atomic.AddUint32(&va.firstToMoveWins, 1)
				localStats.firstToMoveWins++
			} else {
				atomic.AddUint32(&va.secondToMoveWins, 1)
				localStats.secondToMoveWins++
			}
		}

		va.mu.Lock()
		va.lengths = append(va.lengths, len(moves))
		va.mu.Unlock()

		info.FinishedGames = i + 1
		info.Moves = moves
		info.GameMoveNum = len(moves)
		info.Result = result
		info.P1Wins = localStats.P1Wins()
		info.P2Wins = localStats.P2Wins()
		info.Draws = localStats.Draws()
		info.FirstToMoveWins = localStats.FirstToMoveWins()
		info.SecondToMoveWins = localStats.SecondToMoveWins()
		listener.OnFinishedGame(info)
	}

	listener.OnFinishedWork(info)
	return nil
}

func (va *VersusArena[T, P]) gameLengths() []int {
	va.mu.Lock()
	defer va.mu.Unlock()
	return append([]int(nil), va.lengths...)
}

func (va *VersusArena[T, P]) opening(game int) []T {
	if len(va.Openings) == 0 {
		return nil
	}
	return va.Openings[game%len(va.Openings)]
}

// Play a single game, 'first' plays FirstSide. Returns the whole move list
// (including the opening) and the outcome from the first agent's perspective.
func (va *VersusArena[T, P]) playGame(
	ctx context.Context, first, second Agent[T, P], opening []T,
	listener ListenerLike[T], info VersusWorkerInfo[T],
) ([]T, GameOutcome, error) {
	moves := make([]T, len(opening), len(opening)+64)
	copy(moves, opening)

	toMove := va.FirstSide
	for range opening {
		toMove = va.Rules.Opponent(toMove)
	}

	for {
		if err := ctx.Err(); err != nil {
			return moves, GameOutcome{}, err
		}

		winner, won, err := va.Rules.Winner(moves)
		if err != nil {
			return moves, GameOutcome{}, err
		}
		if won {
			return moves, GameOutcome{FirstPlayerWon: winner == va.FirstSide}, nil
		}

		legal, err := va.Rules.LegalMoves(moves)
		if err != nil {
			return moves, GameOutcome{}, err
		}
		if len(legal) == 0 || (va.MaxMoves > 0 && len(moves) >= va.MaxMoves) {
			return moves, GameOutcome{IsDraw: true}, nil
		}

		agent := first
		if toMove != va.FirstSide {
			agent = second
		}

		move, err := agent.NextMove(ctx, moves, toMove)
		if err != nil {
			return moves, GameOutcome{}, fmt.Errorf("%s: %w", agent.Name(), err)
		}
		if !lo.Contains(legal, move) {
			return moves, GameOutcome{}, fmt.Errorf("%s played %v: %w", agent.Name(), move, ErrIllegalMove)
		}

		moves = append(moves, move)
		toMove = va.Rules.Opponent(toMove)

		info.Moves = moves
		info.GameMoveNum = len(moves)
		listener.OnMoveMade(info)
	}
}
