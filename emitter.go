package libemit

import (
	"fmt"
	"runtime/debug"
)

type (
	// Listener receives the payload of the event it was registered for.
	Listener[V any] func(V)

	// WildcardListener receives every emitted event along with its name.
	WildcardListener[K comparable, V any] func(K, V)
)

// slot holds one registration. Slots are never erased from their sequence, only
// tombstoned, so the index carried by a Token keeps its meaning.
type slot[K comparable, V any] struct {
	fn      WildcardListener[K, V]
	removed bool
}

// Emitter is a synchronous event emitter. It maps events (of type K) to ordered
// listener sequences and invokes them on the caller's goroutine when an event
// is emitted, passing along the payload (of type V).
//
// Exact listeners of an event run before wildcard listeners, and both groups run
// in registration order. A panicking listener is recovered and reported through
// the process-wide LogFunc; the remaining listeners still run.
//
// Warning: an Emitter is not safe for concurrent use. Listeners may call back
// into the Emitter (On, Once, Off, Emit, Clear) while it is dispatching.
type Emitter[K comparable, V any] struct {
	listeners map[eventKey[K]][]*slot[K, V]

	// events keeps exact keys in first-registration order.
	events     []K
	generation uint64
	metrics    *Metrics
}

// NewEmitter creates a new Emitter and returns a pointer to it.
func NewEmitter[K comparable, V any](opts ...Option) *Emitter[K, V] {
	o := newOptions(opts...)

	// Generation 0 is reserved for the zero Token.
	return &Emitter[K, V]{
		listeners:  make(map[eventKey[K]][]*slot[K, V]),
		generation: 1,
		metrics:    o.metrics,
	}
}

// On registers a new listener for the given event.
func (e *Emitter[K, V]) On(event K, listener Listener[V]) Token[K] {
	return e.add(exactKey(event), func(_ K, data V) {
		listener(data)
	})
}

// OnWildcard registers a listener that is invoked for every emitted event, after
// the exact listeners of that event.
func (e *Emitter[K, V]) OnWildcard(listener WildcardListener[K, V]) Token[K] {
	return e.add(wildcardKey[K](), listener)
}

// Once registers a listener that is invoked at most once. The listener is
// removed before it runs, so re-emitting the same event from inside it does not
// fire it again.
func (e *Emitter[K, V]) Once(event K, listener Listener[V]) Token[K] {
	return e.addOnce(exactKey(event), func(_ K, data V) {
		listener(data)
	})
}

// OnceWildcard is the wildcard counterpart of Once.
func (e *Emitter[K, V]) OnceWildcard(listener WildcardListener[K, V]) Token[K] {
	return e.addOnce(wildcardKey[K](), listener)
}

// Off removes the listener referenced by token. Unknown, stale or already
// removed tokens are ignored.
func (e *Emitter[K, V]) Off(token Token[K]) {
	if token.generation != e.generation {
		return
	}

	slots, found := e.listeners[token.key]
	if !found || token.index < 0 || token.index >= len(slots) {
		return
	}

	slots[token.index].removed = true
}

// Emit triggers all listeners registered for the given event synchronously,
// followed by the wildcard listeners. It returns once every listener ran.
func (e *Emitter[K, V]) Emit(event K, data V) {
	e.metrics.observeEmit(event)

	// Both sequences are captured before any listener runs, so nothing
	// registered during this call fires until the next one.
	exact := e.listeners[exactKey(event)]
	wildcard := e.listeners[wildcardKey[K]()]
	generation := e.generation

	e.dispatch(exactKey(event), exact, generation, event, data)
	e.dispatch(wildcardKey[K](), wildcard, generation, event, data)
}

// EmitEmpty emits the event with the zero value of V as payload.
func (e *Emitter[K, V]) EmitEmpty(event K) {
	var data V
	e.Emit(event, data)
}

// Clear removes all listeners. Tokens issued before the call no longer
// reference anything.
func (e *Emitter[K, V]) Clear() {
	// A dispatch pass in progress holds its own view of the slots; tombstone
	// them so it stops too.
	for _, slots := range e.listeners {
		for _, s := range slots {
			s.removed = true
		}
	}

	e.listeners = make(map[eventKey[K]][]*slot[K, V])
	e.events = nil
	e.generation++
}

// ListenerCount returns the number of active exact listeners for event.
// Wildcard listeners are not included.
func (e *Emitter[K, V]) ListenerCount(event K) int {
	return activeCount(e.listeners[exactKey(event)])
}

// WildcardCount returns the number of active wildcard listeners.
func (e *Emitter[K, V]) WildcardCount() int {
	return activeCount(e.listeners[wildcardKey[K]()])
}

// Events returns the events that have at least one active exact listener, in
// the order they were first subscribed to.
func (e *Emitter[K, V]) Events() []K {
	var events []K
	for _, event := range e.events {
		if e.ListenerCount(event) > 0 {
			events = append(events, event)
		}
	}
	return events
}

func (e *Emitter[K, V]) add(key eventKey[K], fn WildcardListener[K, V]) Token[K] {
	slots, found := e.listeners[key]
	if !found && !key.wildcard {
		e.events = append(e.events, key.name)
	}

	e.listeners[key] = append(slots, &slot[K, V]{fn: fn})

	return Token[K]{
		key:        key,
		index:      len(slots),
		generation: e.generation,
	}
}

func (e *Emitter[K, V]) addOnce(key eventKey[K], fn WildcardListener[K, V]) Token[K] {
	// The wrapper needs its own token, which only exists after the slot has been
	// appended. Dispatch can't happen in between, so filling it right after add
	// is enough.
	var self Token[K]

	self = e.add(key, func(event K, data V) {
		e.Off(self)
		fn(event, data)
	})

	return self
}

// dispatch runs over a snapshot of the sequence stored under key. Slots
// appended by listeners are past the end of the snapshot and are not visited,
// while tombstones set meanwhile are seen through the shared slot pointers.
func (e *Emitter[K, V]) dispatch(key eventKey[K], slots []*slot[K, V], generation uint64, event K, data V) {
	for i, s := range slots {
		if s.removed {
			continue
		}

		e.invoke(Token[K]{key: key, index: i, generation: generation}, s, event, data)
	}
}

func (e *Emitter[K, V]) invoke(token Token[K], s *slot[K, V], event K, data V) {
	defer func() {
		if r := recover(); r != nil {
			err := newListenerPanicError(fmt.Sprint(event), token.String(), r, debug.Stack())

			e.metrics.observePanic(event)
			safeLog(LevelError, "[Emitter] "+err.Error())
		}
	}()

	e.metrics.observeCall(event, token.IsWildcard())

	s.fn(event, data)
}

func activeCount[K comparable, V any](slots []*slot[K, V]) int {
	n := 0
	for _, s := range slots {
		if !s.removed {
			n++
		}
	}
	return n
}
