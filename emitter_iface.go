package libemit

type (
	// EventEmitter is the behaviour exposed by Emitter.
	EventEmitter[K comparable, V any] interface {
		// On registers a new listener for the given event.
		On(event K, listener Listener[V]) Token[K]

		// OnWildcard registers a listener for every event.
		OnWildcard(listener WildcardListener[K, V]) Token[K]

		// Once registers a listener that is removed after its first invocation.
		Once(event K, listener Listener[V]) Token[K]

		// Off removes the listener referenced by the token, if still present.
		Off(token Token[K])

		// Emit triggers all listeners registered for the given event synchronously.
		Emit(event K, data V)

		// Clear removes all listeners.
		Clear()

		// ListenerCount returns the number of active listeners for the given event.
		ListenerCount(event K) int
	}

	wildcardSubscriber[K comparable, V any] interface {
		OnWildcard(listener WildcardListener[K, V]) Token[K]
		Off(token Token[K])
	}
)

var (
	_ EventEmitter[string, Value]       = (*Emitter[string, Value])(nil)
	_ wildcardSubscriber[string, Value] = (*Emitter[string, Value])(nil)
)
