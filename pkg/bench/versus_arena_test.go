package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-minimax/pkg/connect4"
	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

// Always plays the given column, used to force illegal moves
type fixedAgent struct {
	column int
}

func (f fixedAgent) Name() string { return "fixed" }

func (f fixedAgent) NextMove(context.Context, []int, connect4.Cell) (int, error) {
	return f.column, nil
}

// Counts the callbacks, shared between the workers
type countingListener struct {
	DefaultListener[int]
	mu        sync.Mutex
	moves     int
	games     int
	workers   int
	summary   VersusSummaryInfo
	summaries int
}

func (c *countingListener) OnMoveMade(VersusWorkerInfo[int]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves++
}

func (c *countingListener) OnFinishedGame(VersusWorkerInfo[int]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games++
}

func (c *countingListener) OnFinishedWork(VersusWorkerInfo[int]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workers++
}

func (c *countingListener) Summary(summary VersusSummaryInfo) {
	c.summary = summary
	c.summaries++
}

func (c *countingListener) Clone() ListenerLike[int] {
	return c
}

func smallRules() connect4.Rules {
	return connect4.Rules{Width: 5, Height: 4, Connect: 4}
}

func newEngine(t *testing.T, depth int) *connect4.Engine {
	engine, err := connect4.NewEngine(smallRules(), minimax.DefaultLimits().SetDepth(depth))
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestBasicListeners(t *testing.T) {
	is := is.New(t)
	rules := smallRules()
	arena := NewVersusArena[int, connect4.Cell](rules, connect4.Red, newEngine(t, 1), newEngine(t, 2))

	listener := &countingListener{}
	summary, err := arena.Setup(5, 2).Run(listener)
	is.NoErr(err)

	is.Equal(summary.TotalGames, 5)
	is.Equal(summary.P1Wins+summary.P2Wins+summary.Draws, 5)
	is.Equal(summary.FirstToMoveWins+summary.SecondToMoveWins+summary.Draws, 5)
	is.Equal(summary.Workers, 2)
	is.Equal(summary.P1Name, "minimax(depth=1)")
	is.Equal(summary.P2Name, "minimax(depth=2)")

	is.Equal(listener.games, 5)
	is.Equal(listener.workers, 2)
	is.Equal(listener.summaries, 1)
	is.Equal(listener.summary, summary)
	is.Equal(len(summary.GameLengths), 5)
	is.True(listener.moves >= 5*2*4-5) // every game needs at least 2*Connect-1 moves
}

func TestEngineBeatsRandom(t *testing.T) {
	is := is.New(t)
	rules := smallRules()
	arena := NewVersusArena[int, connect4.Cell](rules, connect4.Red, newEngine(t, 3),
		NewRandomAgent[int, connect4.Cell](rules, 42))

	summary, err := arena.Setup(6, 1).Run(DefaultListener[int]{})
	is.NoErr(err)
	is.Equal(summary.TotalGames, 6)
	is.True(summary.P1Wins > summary.P2Wins) // depth 3 engine should dominate random play
}

func TestOpenings(t *testing.T) {
	is := is.New(t)
	rules := smallRules()
	// Red already has three on the bottom row, whoever plays Red wins at once
	opening := []int{0, 0, 1, 1, 2, 2}
	arena := NewVersusArena[int, connect4.Cell](rules, connect4.Red, newEngine(t, 1), newEngine(t, 1))
	arena.Openings = [][]int{opening}

	summary, err := arena.Setup(4, 1).Run(nil)
	is.NoErr(err)
	is.Equal(summary.FirstToMoveWins, 4)
	is.Equal(summary.P1Wins, 2) // sides alternate between games
	is.Equal(summary.P2Wins, 2)
	is.Equal(opening, []int{0, 0, 1, 1, 2, 2}) // opening isn't modified
}

func TestIllegalMove(t *testing.T) {
	is := is.New(t)
	rules := smallRules()
	arena := NewVersusArena[int, connect4.Cell](rules, connect4.Red, fixedAgent{column: 9}, newEngine(t, 1))

	_, err := arena.Setup(2, 1).Run(nil)
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestMaxMoves(t *testing.T) {
	is := is.New(t)
	rules := smallRules()
	arena := NewVersusArena[int, connect4.Cell](rules, connect4.Red, newEngine(t, 1), newEngine(t, 1))
	arena.MaxMoves = 2

	summary, err := arena.Setup(3, 3).Run(nil)
	is.NoErr(err)
	is.Equal(summary.Draws, 3)
}

func TestCancelledArena(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rules := smallRules()
	arena := NewVersusArena[int, connect4.Cell](rules, connect4.Red, newEngine(t, 1), newEngine(t, 1))
	_, err := arena.WithContext(ctx).Setup(2, 1).Run(nil)
	is.True(errors.Is(err, context.Canceled))
}

func TestWaitWithoutStart(t *testing.T) {
	is := is.New(t)
	arena := NewVersusArena[int, connect4.Cell](smallRules(), connect4.Red, newEngine(t, 1), newEngine(t, 1))
	_, err := arena.Wait()
	is.True(err != nil)
}

func TestColorListenerSummary(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	listener := NewColorListener[int](&buf)
	listener.Summary(VersusSummaryInfo{
		TotalGames:  4,
		P1Wins:      3,
		P2Wins:      1,
		Workers:     2,
		P1Name:      "minimax(depth=3)",
		P2Name:      "random",
		GameLengths: []int{7, 9, 12, 20},
	})

	is.True(bytes.Contains(buf.Bytes(), []byte("minimax(depth=3) vs random, 4 games on 2 workers")))
	is.True(bytes.Contains(buf.Bytes(), []byte("75.0%")))
	is.True(bytes.Contains(buf.Bytes(), []byte("game length")))

	// Equal lengths don't make a histogram
	buf.Reset()
	listener.Summary(VersusSummaryInfo{TotalGames: 2, GameLengths: []int{7, 7}})
	is.True(!bytes.Contains(buf.Bytes(), []byte("game length")))
}

func TestRandomAgent(t *testing.T) {
	is := is.New(t)
	rules := connect4.Rules{Width: 3, Height: 2, Connect: 3}
	agent := NewRandomAgent[int, connect4.Cell](rules, 1)

	for range 20 {
		move, err := agent.NextMove(context.Background(), []int{1, 1}, connect4.Red)
		is.NoErr(err)
		is.True(move == 0 || move == 2)
	}

	_, err := agent.NextMove(context.Background(), []int{0, 1, 2, 0, 1, 2}, connect4.Red)
	is.True(errors.Is(err, minimax.ErrGameOver))
}
