package channel

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

// errClosed reports a write against a connection that has already been
// terminated. The broadcaster treats it as a skip, not a failure.
var errClosed = errors.New("connection closed")

// Connection is one client's open output stream plus its identifier.
// It is owned exclusively by the channel's registry while open;
// ownership ends at removal.
type Connection struct {
	id      string
	w       http.ResponseWriter
	r       *http.Request
	flusher http.Flusher
	created time.Time

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newConnection(id string, w http.ResponseWriter, r *http.Request) *Connection {
	conn := &Connection{
		id:      id,
		w:       w,
		r:       r,
		created: time.Now(),
		done:    make(chan struct{}),
	}
	if f, ok := w.(http.Flusher); ok {
		conn.flusher = f
	}
	return conn
}

// ID returns the connection identifier.
func (c *Connection) ID() string { return c.id }

// Request returns the HTTP request that opened the stream.
func (c *Connection) Request() *http.Request { return c.r }

// Created returns the time the stream was opened.
func (c *Connection) Created() time.Time { return c.created }

// Done is closed when the connection has been terminated. The HTTP
// handler serving the stream blocks on it to keep the response alive.
func (c *Connection) Done() <-chan struct{} { return c.done }

// Write sends raw frame bytes to the client and flushes any buffering
// layer so the event is delivered immediately. Writes are serialized;
// writing to a terminated connection returns errClosed.
func (c *Connection) Write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errClosed
	}
	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	if c.flusher != nil {
		c.flusher.Flush()
	}
	return nil
}

// Close terminates the connection, unblocking the handler goroutine so
// the transport can tear the stream down. Safe to call more than once.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}
