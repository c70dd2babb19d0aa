package bench

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/muesli/termenv"
	"github.com/samber/lo"
	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

// Arena callbacks. OnMoveMade, OnFinishedGame and OnFinishedWork are called from
// the worker goroutines, each worker gets its own Clone of the listener.
// Summary is called once, after all workers are done.
type ListenerLike[T minimax.MoveLike] interface {
	OnMoveMade(info VersusWorkerInfo[T])
	OnFinishedGame(info VersusWorkerInfo[T])
	OnFinishedWork(info VersusWorkerInfo[T])
	Summary(summary VersusSummaryInfo)
	Clone() ListenerLike[T]
}

// Logs the progress with zerolog
type DefaultListener[T minimax.MoveLike] struct{}

func (d DefaultListener[T]) OnMoveMade(info VersusWorkerInfo[T]) {
	log.Debug().Int("worker", info.WorkerID).Int("move-num", info.GameMoveNum).
		Interface("moves", info.Moves).Msg("move-made")
}

func (d DefaultListener[T]) OnFinishedGame(info VersusWorkerInfo[T]) {
	log.Info().Int("worker", info.WorkerID).Int("game", info.FinishedGames).
		Int("of", info.NGames).Stringer("winner", info.Result).
		Interface("moves", info.Moves).Msg("game-finished")
}

func (d DefaultListener[T]) OnFinishedWork(info VersusWorkerInfo[T]) {
	log.Debug().Int("worker", info.WorkerID).Int("p1-wins", info.P1Wins).
		Int("p2-wins", info.P2Wins).Int("draws", info.Draws).Msg("worker-finished")
}

func (d DefaultListener[T]) Summary(summary VersusSummaryInfo) {
	log.Info().Interface("summary", summary).Msg("arena-finished")
}

func (d DefaultListener[T]) Clone() ListenerLike[T] {
	return DefaultListener[T]{}
}

const (
	histogramBins  = 8
	histogramWidth = 30
)

// Prints the final summary with colors, the rest is logged like in DefaultListener
type ColorListener[T minimax.MoveLike] struct {
	DefaultListener[T]
	out *termenv.Output
}

func NewColorListener[T minimax.MoveLike](w io.Writer) *ColorListener[T] {
	return &ColorListener[T]{out: termenv.NewOutput(w)}
}

func (c *ColorListener[T]) Clone() ListenerLike[T] {
	return c
}

func (c *ColorListener[T]) Summary(summary VersusSummaryInfo) {
	total := max(summary.TotalGames, 1)
	percent := func(n int) float64 {
		return 100 * float64(n) / float64(total)
	}

	win := c.out.Color("#3FB950")
	loss := c.out.Color("#F85149")
	dim := c.out.Color("#8B949E")

	fmt.Fprintf(c.out, "%s\n", c.out.String(fmt.Sprintf("%s vs %s, %d games on %d workers",
		summary.P1Name, summary.P2Name, summary.TotalGames, summary.Workers)).Bold())
	fmt.Fprintf(c.out, "  %-24s %s\n", summary.P1Name,
		c.out.String(fmt.Sprintf("%4d (%5.1f%%)", summary.P1Wins, percent(summary.P1Wins))).Foreground(win))
	fmt.Fprintf(c.out, "  %-24s %s\n", summary.P2Name,
		c.out.String(fmt.Sprintf("%4d (%5.1f%%)", summary.P2Wins, percent(summary.P2Wins))).Foreground(loss))
	fmt.Fprintf(c.out, "  %-24s %s\n", "draws",
		c.out.String(fmt.Sprintf("%4d (%5.1f%%)", summary.Draws, percent(summary.Draws))).Foreground(dim))
	fmt.Fprintf(c.out, "  first to move won %d, second to move won %d\n",
		summary.FirstToMoveWins, summary.SecondToMoveWins)

	// Histogram needs at least two distinct values
	if lo.Min(summary.GameLengths) != lo.Max(summary.GameLengths) {
		fmt.Fprintln(c.out, c.out.String("game length").Foreground(dim))
		lengths := lo.Map(summary.GameLengths, func(n int, _ int) float64 { return float64(n) })
		hist := histogram.Hist(min(histogramBins, len(lengths)), lengths)
		if err := histogram.Fprint(c.out, hist, histogram.Linear(histogramWidth)); err != nil {
			log.Debug().Err(err).Msg("histogram-failed")
		}
	}
}
