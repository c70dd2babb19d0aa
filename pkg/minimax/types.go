package minimax

// Other types, which didn't fit to Engine or search files

// Move identifier, for column-drop games it's simply the column index
type MoveLike comparable

// One of exactly two values identifying whose turn it is
type PlayerLike comparable

// Signed score of a position, larger is better for the maximizing (root) player
type Score int

// Score line of a single root move, after its search task finished
type RootLine[T MoveLike] struct {
	Index int
	Move  T
	Score Score
	Nodes uint64
	Evals uint64
}
