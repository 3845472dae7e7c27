package libemit

import "fmt"

// eventKey addresses one listener sequence. The wildcard sequence is a tagged
// variant rather than a reserved name, so no event name can collide with it.
type eventKey[K comparable] struct {
	name     K
	wildcard bool
}

func exactKey[K comparable](name K) eventKey[K] {
	return eventKey[K]{name: name}
}

func wildcardKey[K comparable]() eventKey[K] {
	return eventKey[K]{wildcard: true}
}

// Token identifies the slot created by one registration call. It is the only
// handle accepted by Off. Tokens are comparable; two tokens are equal when they
// reference the same slot of the same registry generation.
//
// The zero Token is valid and references nothing.
type Token[K comparable] struct {
	key        eventKey[K]
	index      int
	generation uint64
}

// Event returns the event name the token was registered for. It is the zero
// value of K for wildcard tokens.
func (t Token[K]) Event() K {
	return t.key.name
}

// IsWildcard reports whether the token belongs to the wildcard sequence.
func (t Token[K]) IsWildcard() bool {
	return t.key.wildcard
}

// Index returns the slot position within its sequence.
func (t Token[K]) Index() int {
	return t.index
}

func (t Token[K]) String() string {
	if t.key.wildcard {
		return fmt.Sprintf("<wildcard>#%d", t.index)
	}
	return fmt.Sprintf("%v#%d", t.key.name, t.index)
}
