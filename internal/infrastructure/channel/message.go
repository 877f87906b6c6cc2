package channel

// Message is one application message to be framed and fanned out.
//
// A Message is transient: it is constructed per Publish call and not
// retained by the channel. All fields except Data are optional; absent
// fields are simply omitted from the rendered frame.
type Message struct {
	// ID is the optional event identifier. Clients echo it back on
	// reconnect via the Last-Event-ID mechanism; the channel itself
	// does not consume it.
	ID string `json:"id,omitempty"`

	// Event is the optional named event type.
	Event string `json:"event,omitempty"`

	// Retry is a per-message reconnect-delay override in milliseconds.
	// Zero means no override.
	Retry int `json:"retry,omitempty"`

	// Data is the payload. Strings and byte slices are written as-is
	// unless the channel JSON-encodes payloads; any other value is
	// serialized to JSON.
	Data any `json:"data"`
}

// Text wraps a plain text payload in a Message with no id, event name
// or retry override.
func Text(payload string) *Message {
	return &Message{Data: payload}
}
