package minimax

// Called with every root move's score, as soon as its task finishes
type RootListenerFunc[T MoveLike] func(RootLine[T])

// Called once the whole search is done
type ListenerFunc[T MoveLike] func(SearchResult[T])

type StatsListener[T MoveLike] struct {
	// called when a root task finishes, in completion order (not enumeration order),
	// calls are serialized by the engine
	onRootScored RootListenerFunc[T]

	// called after all root tasks joined and the best move was selected
	onStop ListenerFunc[T]
}

func NewStatsListener[T MoveLike]() StatsListener[T] {
	return StatsListener[T]{}
}

// Attach new on root scored callback. The engine serializes the calls, so no
// synchronization is needed inside of it
func (listener *StatsListener[T]) OnRootScored(onRootScored RootListenerFunc[T]) *StatsListener[T] {
	listener.onRootScored = onRootScored
	return listener
}

// Attach 'on search end' callback, called once per successful search
func (listener *StatsListener[T]) OnStop(onStop ListenerFunc[T]) *StatsListener[T] {
	listener.onStop = onStop
	return listener
}
