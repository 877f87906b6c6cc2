package channel

import "net/http"

// Listener receives channel lifecycle notifications. Implementations
// must not block: notifications are delivered synchronously from the
// operation that caused them.
type Listener interface {
	// OnConnect fires after a new connection completed its handshake
	// and was registered.
	OnConnect(r *http.Request, w http.ResponseWriter)

	// OnDisconnect fires exactly once per connection, on its removal
	// from the registry.
	OnDisconnect(ch *Channel, conn *Connection)

	// OnMessage fires after a publish, with the original message and
	// the recipient set resolved at publish time.
	OnMessage(ch *Channel, msg *Message, recipients []*Connection)
}

// ListenerFuncs adapts plain functions to the Listener interface.
// Nil fields are ignored.
type ListenerFuncs struct {
	Connect    func(r *http.Request, w http.ResponseWriter)
	Disconnect func(ch *Channel, conn *Connection)
	Message    func(ch *Channel, msg *Message, recipients []*Connection)
}

func (l *ListenerFuncs) OnConnect(r *http.Request, w http.ResponseWriter) {
	if l.Connect != nil {
		l.Connect(r, w)
	}
}

func (l *ListenerFuncs) OnDisconnect(ch *Channel, conn *Connection) {
	if l.Disconnect != nil {
		l.Disconnect(ch, conn)
	}
}

func (l *ListenerFuncs) OnMessage(ch *Channel, msg *Message, recipients []*Connection) {
	if l.Message != nil {
		l.Message(ch, msg, recipients)
	}
}
