package connect4

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/go-minimax/pkg/minimax"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func TestBoardReplay(t *testing.T) {
	rules := Standard()
	board, err := rules.Board([]int{3, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, Red, board.At(3, 0))
	assert.Equal(t, Yellow, board.At(3, 1))
	assert.Equal(t, Red, board.At(4, 0))
	assert.Equal(t, Empty, board.At(4, 1))
	assert.Equal(t, 2, board.Height(3))
	assert.Equal(t, Yellow, board.Turn())
	assert.Equal(t, 3, board.Moves())

	_, err = rules.Board([]int{7})
	assert.True(t, errors.Is(err, ErrColumnOutOfRange))

	_, err = rules.Board([]int{0, 0, 0, 0, 0, 0, 0})
	assert.True(t, errors.Is(err, ErrColumnFull))
}

func TestWinner(t *testing.T) {
	rules := Standard()
	tests := []struct {
		name    string
		history []int
		winner  Cell
		won     bool
	}{
		{"empty", nil, Empty, false},
		{"horizontal", []int{0, 0, 1, 1, 2, 2, 3}, Red, true},
		{"vertical", []int{0, 1, 0, 1, 0, 1, 0}, Red, true},
		{"yellow vertical", []int{0, 1, 0, 1, 0, 1, 2, 1}, Yellow, true},
		{"diagonal", []int{0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3}, Red, true},
		{"anti diagonal", []int{6, 5, 5, 4, 4, 3, 4, 3, 3, 0, 3}, Red, true},
		{"three only", []int{0, 0, 1, 1, 2, 2}, Empty, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			winner, won, err := rules.Winner(tc.history)
			require.NoError(t, err)
			assert.Equal(t, tc.won, won)
			assert.Equal(t, tc.winner, winner)
		})
	}
}

func TestLegalMoves(t *testing.T) {
	rules := Rules{Width: 3, Height: 2, Connect: 3}
	require.NoError(t, rules.Validate())

	moves, err := rules.LegalMoves(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, moves)

	moves, err = rules.LegalMoves([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, moves)

	// Full board without a winner
	moves, err = rules.LegalMoves([]int{0, 1, 2, 0, 1, 2})
	require.NoError(t, err)
	assert.Empty(t, moves)

	// Won positions are terminal
	moves, err = Standard().LegalMoves([]int{0, 1, 0, 1, 0, 1, 0})
	require.NoError(t, err)
	assert.Empty(t, moves)

	_, err = rules.LegalMoves([]int{1, 1, 1})
	assert.Error(t, err)
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, Standard().Validate())
	assert.True(t, errors.Is(Rules{Width: 0, Height: 6, Connect: 4}.Validate(), ErrInvalidRules))
	assert.True(t, errors.Is(Rules{Width: 3, Height: 3, Connect: 4}.Validate(), ErrInvalidRules))
	assert.True(t, errors.Is(Rules{Width: 3, Height: 3, Connect: 1}.Validate(), ErrInvalidRules))
}

func TestOpponent(t *testing.T) {
	rules := Standard()
	assert.Equal(t, Yellow, rules.Opponent(Red))
	assert.Equal(t, Red, rules.Opponent(Yellow))
	assert.Equal(t, Red, rules.Opponent(rules.Opponent(Red)))
	assert.Equal(t, Red, rules.PlayerToMove(nil))
	assert.Equal(t, Yellow, rules.PlayerToMove([]int{3}))
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves("3,3, 4 5")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 4, 5}, moves)
	assert.Equal(t, "3,3,4,5", FormatMoves(moves))

	moves, err = ParseMoves("")
	require.NoError(t, err)
	assert.Empty(t, moves)

	_, err = ParseMoves("3,x")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	board, err := Rules{Width: 4, Height: 2, Connect: 2}.Board([]int{0, 0, 3})
	require.NoError(t, err)

	want := strings.Join([]string{
		"o . . .",
		"x . . x",
		"0 1 2 3",
		"",
	}, "\n")
	assert.Equal(t, want, board.String())

	colored := board.Render(termenv.TrueColor)
	assert.Contains(t, colored, "\x1b[")
	assert.NotEqual(t, want, colored)
}

func TestHeuristic(t *testing.T) {
	rules := Standard()
	h := NewWindowHeuristic(rules)

	score, err := h.Evaluate(nil, Red)
	require.NoError(t, err)
	assert.Equal(t, minimax.Score(0), score)

	// Red has an open three on the bottom row
	history := []int{0, 0, 1, 1, 2, 6}
	red, err := h.Evaluate(history, Red)
	require.NoError(t, err)
	yellow, err := h.Evaluate(history, Yellow)
	require.NoError(t, err)
	assert.Greater(t, red, minimax.Score(0))
	assert.Less(t, yellow, minimax.Score(0))

	// Already won
	won, err := h.Evaluate([]int{0, 1, 0, 1, 0, 1, 0}, Yellow)
	require.NoError(t, err)
	assert.Equal(t, -h.Weights.Win, won)

	_, err = h.Evaluate([]int{9}, Red)
	assert.Error(t, err)
}

func TestHeuristicBound(t *testing.T) {
	rules := Rules{Width: 4, Height: 4, Connect: 4}
	h := NewWindowHeuristic(rules)
	// 4 rows, 4 columns and 2 diagonals
	assert.Equal(t, h.Weights.Win, h.Bound())

	h.Weights.Win = 1
	assert.Equal(t, 10*h.Weights.OpponentThree+4*h.Weights.Center, h.Bound())

	// Every reachable evaluation stays within the bound
	standard := NewWindowHeuristic(Standard())
	for _, history := range [][]int{nil, {3, 3, 2}, {0, 0, 1, 1, 2, 6}, {0, 1, 0, 1, 0, 1, 0}} {
		score, err := standard.Evaluate(history, Red)
		require.NoError(t, err)
		assert.LessOrEqual(t, max(score, -score), standard.Bound())
	}
	assert.Less(t, standard.Bound(), minimax.DefaultInf)
}

func TestEngineCompletesLine(t *testing.T) {
	rules := Standard()
	// Red has three on the bottom row, column 3 completes it
	history := []int{0, 0, 1, 1, 2, 2}

	for depth := 1; depth <= 3; depth++ {
		engine, err := NewEngine(rules, minimax.DefaultLimits().SetDepth(depth))
		require.NoError(t, err)

		move, err := engine.NextMove(context.Background(), history, rules.PlayerToMove(history))
		require.NoError(t, err)
		assert.Equal(t, 3, move, "depth %d", depth)
	}
}

func TestEngineBlocks(t *testing.T) {
	rules := Standard()
	// Red threatens column 3, yellow to move must block
	history := []int{0, 6, 1, 6, 2}

	engine, err := NewEngine(rules, minimax.DefaultLimits().SetDepth(2))
	require.NoError(t, err)

	result, err := engine.Search(context.Background(), history, Yellow)
	require.NoError(t, err)
	assert.Equal(t, 3, result.BestMove)
	for _, line := range result.Lines {
		if line.Move != 3 {
			assert.Equal(t, -minimax.DefaultWinScore, line.Score)
		}
	}
}

func TestEngineFullBoard(t *testing.T) {
	rules := Rules{Width: 3, Height: 2, Connect: 3}
	engine, err := NewEngine(rules, minimax.DefaultLimits().SetDepth(2))
	require.NoError(t, err)

	_, err = engine.NextMove(context.Background(), []int{0, 1, 2, 0, 1, 2}, Red)
	assert.ErrorIs(t, err, minimax.ErrGameOver)
}

func TestEngineRejectsBadRules(t *testing.T) {
	_, err := NewEngine(Rules{Width: 2, Height: 2, Connect: 3}, nil)
	assert.ErrorIs(t, err, ErrInvalidRules)
}

// Self-play on a small board must end with a legal, finished game
func TestSelfPlay(t *testing.T) {
	rules := Rules{Width: 5, Height: 4, Connect: 4}
	engine, err := NewEngine(rules, minimax.DefaultLimits().SetDepth(2))
	require.NoError(t, err)

	var history []int
	for {
		move, err := engine.NextMove(context.Background(), history, rules.PlayerToMove(history))
		if errors.Is(err, minimax.ErrGameOver) {
			break
		}
		require.NoError(t, err)
		history = append(history, move)
		require.LessOrEqual(t, len(history), rules.Width*rules.Height)
	}

	board, err := rules.Board(history)
	require.NoError(t, err)
	_, won := board.Winner()
	assert.True(t, won || board.Full())
	t.Logf("moves %s\n%s", FormatMoves(history), board)
}

func BenchmarkStandardDepth4(b *testing.B) {
	rules := Standard()
	engine, err := NewEngine(rules, minimax.DefaultLimits().SetDepth(4))
	if err != nil {
		b.Fatal(err)
	}

	history := []int{3, 3, 2}
	for i := 0; i < b.N; i++ {
		if _, err := engine.NextMove(context.Background(), history, Yellow); err != nil {
			b.Fatal(err)
		}
	}
}
