package channel

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"go-sse-channel/internal/infrastructure/logger"
)

// Options configures a Channel at construction time.
type Options struct {
	// JSONEncode serializes every payload to JSON before framing,
	// regardless of its original shape.
	JSONEncode bool

	// RetryMS is the initial client reconnect delay in milliseconds,
	// included in every handshake. Zero means no retry directive.
	RetryMS int
}

// Channel is an in-memory, single-process SSE broadcaster. It owns a
// registry of open connections keyed by identifier, performs the
// protocol handshake for new connections, fans published messages out
// to some or all of them, and notifies registered listeners of
// connects, disconnects and publishes.
//
// Registry iteration order is insertion order; that ordering is part of
// the contract, not an accident of the map implementation.
//
// All methods are safe for concurrent use. The channel never returns an
// error to its caller: duplicate registrations are silent no-ops and
// malformed identifiers are treated as opaque strings.
type Channel struct {
	mu        sync.Mutex
	registry  *orderedmap.OrderedMap[string, *Connection]
	retryMS   int
	listeners []Listener

	jsonEncode bool
	logger     logger.Logger
}

// New constructs a Channel. The channel lives for the process or until
// discarded; Close terminates its member connections but leaves the
// channel itself usable.
func New(opts Options, log logger.Logger) *Channel {
	return &Channel{
		registry:   orderedmap.New[string, *Connection](),
		retryMS:    opts.RetryMS,
		jsonEncode: opts.JSONEncode,
		logger:     log.WithField("component", "channel"),
	}
}

// AddConnection performs the SSE handshake on w and registers the
// resulting connection under id. An empty id gets a generated one.
//
// If id is already registered the call is an idempotent no-op: nothing
// is written to w, no notification fires, and the existing connection
// is returned with added == false.
//
// Removal is armed before returning: when the request context ends or
// the connection is closed, the connection is removed from the
// registry.
func (ch *Channel) AddConnection(w http.ResponseWriter, r *http.Request, id string) (conn *Connection, added bool) {
	if id == "" {
		id = uuid.NewString()
	}

	// Hold the new connection's write lock through the handshake so a
	// concurrent publish that snapshots it cannot write a frame ahead
	// of the preamble. Handshake I/O stays off ch.mu: one slow peer
	// must not stall the whole channel.
	conn = newConnection(id, w, r)
	conn.mu.Lock()

	ch.mu.Lock()
	if existing, ok := ch.registry.Get(id); ok {
		ch.mu.Unlock()
		conn.mu.Unlock()
		ch.logger.Debugf("connection %s already registered, ignoring", id)
		return existing, false
	}
	ch.registry.Set(id, conn)
	retryMS := ch.retryMS
	ch.mu.Unlock()

	ch.handshake(w, r, retryMS)
	conn.mu.Unlock()

	// Arm the removal triggers: transport-level termination (request
	// context) and caller-initiated close both funnel into the same
	// idempotent removal path. Removal is keyed to this connection
	// instance, not just the identifier: by the time a trigger fires
	// the identifier may already belong to a later, distinct
	// connection, which must be left alone.
	go func() {
		select {
		case <-r.Context().Done():
		case <-conn.Done():
		}
		ch.removeIfCurrent(id, conn)
	}()

	ch.logger.Infof("connection %s registered (%s)", id, r.RemoteAddr)
	for _, l := range ch.snapshotListeners() {
		l.OnConnect(r, w)
	}
	return conn, true
}

// handshake writes the stream preamble: status and headers declaring an
// event stream, a comment line as an immediate liveness probe, the
// retry directive if one is set, and the compatibility padding when the
// client asks for it. Everything is flushed before the connection is
// considered open.
func (ch *Channel) handshake(w http.ResponseWriter, r *http.Request, retryMS int) {
	// Long-lived stream: the server-wide write deadline must not
	// apply. Best effort; not every ResponseWriter supports it.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	io.WriteString(w, ":ok\n\n")
	if retryMS > 0 {
		fmt.Fprintf(w, "retry: %d\n", retryMS)
	}
	if r.URL.Query().Has(preambleParam) {
		w.Write(preamble)
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// RemoveConnection removes id from the registry and terminates its
// connection. Idempotent: transport end, close and response completion
// commonly all fire for one stream, so removal of an absent id changes
// nothing and emits no second disconnect notification.
func (ch *Channel) RemoveConnection(id string) {
	ch.mu.Lock()
	conn, ok := ch.registry.Get(id)
	if !ok {
		ch.mu.Unlock()
		return
	}
	ch.registry.Delete(id)
	ch.mu.Unlock()

	ch.finishRemoval(conn)
}

// removeIfCurrent removes id only while it still maps to conn. Stale
// triggers carry the connection instance they were armed for; once the
// identifier has been reused by a later, distinct connection they must
// not touch it.
func (ch *Channel) removeIfCurrent(id string, conn *Connection) {
	ch.mu.Lock()
	current, ok := ch.registry.Get(id)
	if !ok || current != conn {
		ch.mu.Unlock()
		return
	}
	ch.registry.Delete(id)
	ch.mu.Unlock()

	ch.finishRemoval(conn)
}

func (ch *Channel) finishRemoval(conn *Connection) {
	conn.Close()
	ch.logger.Infof("connection %s removed", conn.ID())
	for _, l := range ch.snapshotListeners() {
		l.OnDisconnect(ch, conn)
	}
}

// Publish encodes msg exactly once and fans it out. With explicit
// targets, each identifier is resolved through the registry and absent
// ones are skipped; without targets every connection registered at call
// time receives the frame. Connections joining after the snapshot do
// not receive this message; connections removed after the snapshot are
// skipped by the broadcaster.
func (ch *Channel) Publish(msg *Message, targets ...string) {
	frame := Encode(msg, ch.jsonEncode)

	ch.mu.Lock()
	var recipients []*Connection
	if len(targets) > 0 {
		for _, id := range targets {
			if conn, ok := ch.registry.Get(id); ok {
				recipients = append(recipients, conn)
			}
		}
	} else {
		recipients = make([]*Connection, 0, ch.registry.Len())
		for pair := ch.registry.Oldest(); pair != nil; pair = pair.Next() {
			recipients = append(recipients, pair.Value)
		}
	}
	ch.mu.Unlock()

	ch.broadcast(recipients, frame)
	ch.logger.Debugf("published message to %d connections", len(recipients))
	for _, l := range ch.snapshotListeners() {
		l.OnMessage(ch, msg, recipients)
	}
}

// Retry sets the channel's reconnect delay and pushes a retry directive
// to every open connection, so existing clients adopt the new delay
// without reconnecting. Subsequent handshakes carry the value too.
func (ch *Channel) Retry(intervalMS int) {
	ch.mu.Lock()
	ch.retryMS = intervalMS
	conns := make([]*Connection, 0, ch.registry.Len())
	for pair := ch.registry.Oldest(); pair != nil; pair = pair.Next() {
		conns = append(conns, pair.Value)
	}
	ch.mu.Unlock()

	ch.broadcast(conns, []byte(fmt.Sprintf("retry: %d\n", intervalMS)))
	ch.logger.Infof("retry interval set to %dms", intervalMS)
}

// Close terminates every registered connection. The registry is empty
// before Close returns, though transport teardown of the individual
// streams completes asynchronously. The channel remains usable and may
// accept new connections afterward.
func (ch *Channel) Close() {
	ch.mu.Lock()
	conns := make([]*Connection, 0, ch.registry.Len())
	for pair := ch.registry.Oldest(); pair != nil; pair = pair.Next() {
		conns = append(conns, pair.Value)
	}
	ch.mu.Unlock()

	for _, conn := range conns {
		ch.removeIfCurrent(conn.ID(), conn)
	}
	ch.logger.Infof("channel closed, %d connections terminated", len(conns))
}

// ConnectionCount returns the number of open connections.
func (ch *Channel) ConnectionCount() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.registry.Len()
}

// ConnectionIDs returns the open connection identifiers in insertion
// order.
func (ch *Channel) ConnectionIDs() []string {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ids := make([]string, 0, ch.registry.Len())
	for pair := ch.registry.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Subscribe registers a lifecycle listener.
func (ch *Channel) Subscribe(l Listener) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.listeners = append(ch.listeners, l)
}

// Unsubscribe removes a previously registered listener, compared by
// identity. Unknown listeners are ignored.
func (ch *Channel) Unsubscribe(l Listener) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for i, registered := range ch.listeners {
		if registered == l {
			ch.listeners = append(ch.listeners[:i], ch.listeners[i+1:]...)
			return
		}
	}
}

func (ch *Channel) snapshotListeners() []Listener {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return append([]Listener(nil), ch.listeners...)
}
