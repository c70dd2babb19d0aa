package minimax

// Depth at which every root task starts its search, independent of the root itself
const rootDepth = 1

const (
	// Score of a decisive win for the player being evaluated from
	DefaultWinScore Score = 1_000_000

	// Effectively infinite bound, used to initialize best-value search.
	// Must be strictly greater than any achievable score, including the win score
	DefaultInf Score = 1_000_000_000

	DefaultDepthLimit int = 4

	// Launch one goroutine per root move
	UnlimitedThreads int = 0
)
