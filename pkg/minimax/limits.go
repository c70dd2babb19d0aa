package minimax

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Search configuration, copied into the engine on construction
type Limits struct {
	Depth    int
	WinScore Score
	Inf      Score
	NThreads int
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

func DefaultLimits() *Limits {
	return &Limits{
		Depth:    DefaultDepthLimit,
		WinScore: DefaultWinScore,
		Inf:      DefaultInf,
		NThreads: UnlimitedThreads,
	}
}

// Set the maximum depth of the search, after exceeding it the heuristic is called
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = depth
	return l
}

func (l *Limits) SetWinScore(score Score) *Limits {
	l.WinScore = score
	return l
}

func (l *Limits) SetInf(inf Score) *Limits {
	l.Inf = inf
	return l
}

// Set the maximum number of root moves searched at the same time,
// 0 means every root move gets its own goroutine
func (l *Limits) SetThreads(threads int) *Limits {
	l.NThreads = max(threads, UnlimitedThreads)
	return l
}

// Check the limits can be used for the search
func (l Limits) Validate() error {
	switch {
	case l.Depth < 1:
		return fmt.Errorf("%w: depth must be positive, got %d", ErrInvalidLimits, l.Depth)
	case l.WinScore <= 0:
		return fmt.Errorf("%w: win score must be positive, got %d", ErrInvalidLimits, l.WinScore)
	case l.Inf <= l.WinScore:
		return fmt.Errorf("%w: inf (%d) must be greater than win score (%d)", ErrInvalidLimits, l.Inf, l.WinScore)
	case l.NThreads < 0:
		return fmt.Errorf("%w: threads can't be negative, got %d", ErrInvalidLimits, l.NThreads)
	}
	return nil
}
