package libemit

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrListenerPanic = errors.New("listener panicked")
	ErrInvalidValue  = errors.New("invalid value")
	ErrBridgeClosed  = errors.New("bridge has been closed")
	ErrCannotConnect = errors.New("connection cannot be established")
	ErrTerminated    = errors.New("bridge terminated")
	ErrRateLimit     = errors.New("rate limit exceeded")
)

// ListenerPanicError describes a panic recovered while invoking a listener.
type ListenerPanicError struct {
	Event string
	Token string
	Value any
	Stack []byte
}

func (e *ListenerPanicError) Error() string {
	return fmt.Sprintf("listener panic for '%s' (%s): %v", e.Event, e.Token, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *ListenerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e *ListenerPanicError) Is(target error) bool {
	return target == ErrListenerPanic
}

func newListenerPanicError(event, token string, value any, stack []byte) *ListenerPanicError {
	return &ListenerPanicError{
		Event: event,
		Token: token,
		Value: value,
		Stack: stack,
	}
}
