package libemit

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fasthttp/websocket"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

const defaultWriteTimeout = time.Second

type (
	CloseChan chan struct{}

	OpenConnectionParams struct {
		URL    url.URL
		Header http.Header
	}

	ErrAdapter func(*websocket.Conn, *http.Response, error) error

	// FrameEncoder turns an emitted event into one websocket text frame.
	FrameEncoder[K comparable, V any] func(event K, data V) ([]byte, error)

	BridgeConfig[K comparable, V any] struct {
		// Dialer defaults to websocket.DefaultDialer.
		Dialer *websocket.Dialer
		// WriteTimeout bounds every frame write. Defaults to one second.
		WriteTimeout time.Duration
		// Encoder defaults to JSONFrameEncoder.
		Encoder FrameEncoder[K, V]
		// OnDialError overrides the default dial error classification.
		OnDialError ErrAdapter
	}

	// Bridge mirrors every event emitted on an emitter to a websocket peer.
	// Frames are written synchronously from the emitting goroutine.
	Bridge[K comparable, V any] struct {
		emitter      wildcardSubscriber[K, V]
		token        Token[K]
		encoder      FrameEncoder[K, V]
		writeTimeout time.Duration
		conn         *websocket.Conn

		closed      atomic.Bool
		closeChan   CloseChan
		closeOnce   sync.Once
		closeMu     sync.Mutex
		closeReason error
	}
)

func (c BridgeConfig[K, V]) withDefaults() BridgeConfig[K, V] {
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.Encoder == nil {
		c.Encoder = JSONFrameEncoder[K, V]
	}
	return c
}

// OpenBridge dials params.URL and subscribes the bridge to every event of em.
// The bridge is closed when ctx is done, when the peer goes away, or when a
// write fails.
func OpenBridge[K comparable, V any](
	ctx context.Context,
	em wildcardSubscriber[K, V],
	params OpenConnectionParams,
	cfg BridgeConfig[K, V],
) (*Bridge[K, V], error) {
	cfg = cfg.withDefaults()

	conn, resp, err := cfg.Dialer.DialContext(ctx, params.URL.String(), params.Header)

	if err = handleDialError(cfg.OnDialError, conn, resp, err); err != nil {
		logf(LevelWarn, "[Bridge] connection err to %s: %s", params.URL.String(), err)
		return nil, err
	}
	if conn == nil {
		return nil, errors.Wrap(ErrCannotConnect, "no connection")
	}

	logf(LevelDebug, "[Bridge] success opening connection to %s", params.URL.String())

	b := &Bridge[K, V]{
		emitter:      em,
		encoder:      cfg.Encoder,
		writeTimeout: cfg.WriteTimeout,
		conn:         conn,
		closeChan:    make(CloseChan),
	}

	b.token = em.OnWildcard(b.forward)

	go b.read()
	go b.watch(ctx)

	return b, nil
}

// Token returns the wildcard subscription held by the bridge.
func (b *Bridge[K, V]) Token() Token[K] {
	return b.token
}

// Detach unsubscribes the bridge from its emitter. Like any other emitter
// call, it must run on the goroutine that owns the emitter.
func (b *Bridge[K, V]) Detach() {
	b.emitter.Off(b.token)
}

// Close terminates the websocket connection. The wildcard subscription is
// dropped on the next emitted event, or right away with Detach. It only
// executes once, subsequent calls have no effect.
func (b *Bridge[K, V]) Close() {
	b.setCloseReason(ErrTerminated)
	b.safeClose()
}

// CloseChan returns a channel that will be closed when the bridge is closed.
func (b *Bridge[K, V]) CloseChan() CloseChan {
	return b.closeChan
}

// CloseErr returns an error that explains why the bridge was closed.
func (b *Bridge[K, V]) CloseErr() error {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()

	return b.closeReason
}

func (b *Bridge[K, V]) forward(event K, data V) {
	if b.closed.Load() {
		// Closed from ctx or the read loop; drop the subscription now that we
		// are on the emitter's goroutine.
		b.Detach()
		return
	}

	frame, err := b.encoder(event, data)
	if err != nil {
		logf(LevelWarn, "[Bridge] cannot encode '%v': %s", event, err)
		return
	}

	_ = b.conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))

	if err := b.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		logf(LevelWarn, "[Bridge] write of '%v' failed, closing: %s", event, err)

		b.setCloseReason(errors.Wrap(ErrBridgeClosed, "write: "+err.Error()))
		b.safeClose()
		// forward runs on the emitter's goroutine, so unsubscribing is safe here.
		b.Detach()
	}
}

// read drains incoming frames so control messages get processed.
func (b *Bridge[K, V]) read() {
	defer b.safeClose()

	for {
		if _, _, err := b.conn.ReadMessage(); err != nil {
			b.setCloseReason(errors.Wrap(ErrBridgeClosed, "read: "+err.Error()))
			return
		}
	}
}

func (b *Bridge[K, V]) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		b.Close()
	case <-b.closeChan:
	}
}

func (b *Bridge[K, V]) safeClose() {
	b.closeOnce.Do(b.close)
}

func (b *Bridge[K, V]) close() {
	b.closed.Store(true)
	_ = b.conn.Close()
	close(b.closeChan)
}

func (b *Bridge[K, V]) setCloseReason(err error) {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()

	if b.closeReason == nil {
		b.closeReason = err
	}
}

// JSONFrameEncoder encodes events as {"event": <name>, "payload": <data>}.
func JSONFrameEncoder[K comparable, V any](event K, data V) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	frame, err := sjson.SetBytes(nil, "event", event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	frame, err = sjson.SetRawBytes(frame, "payload", payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return frame, nil
}

func handleDialError(adapter ErrAdapter, conn *websocket.Conn, resp *http.Response, err error) error {
	if adapter != nil {
		return adapter(conn, resp, err)
	}

	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	// A 429 handshake response is reported as rate limiting, with the body as
	// context, whatever the dial error says.
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		var body string
		if resp.Body != nil {
			if bts, readErr := io.ReadAll(resp.Body); readErr == nil {
				body = string(bts)
			}
		}
		return errors.Wrap(ErrRateLimit, body)
	}

	if err != nil {
		return errors.Wrap(ErrCannotConnect, err.Error())
	}

	return nil
}
