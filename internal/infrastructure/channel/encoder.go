package channel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Encode renders a message into its SSE wire frame, ready to be written
// to a client. Fields are appended in order, only if present: event,
// retry, id, then one "data:" line per physical payload line, and a
// blank line terminating the event.
//
// Encoding is deterministic: the same message and jsonEncode flag always
// produce the same frame.
func Encode(msg *Message, jsonEncode bool) []byte {
	var b bytes.Buffer

	if msg.Event != "" {
		b.WriteString("event: ")
		b.WriteString(msg.Event)
		b.WriteByte('\n')
	}
	if msg.Retry > 0 {
		fmt.Fprintf(&b, "retry: %d\n", msg.Retry)
	}
	if msg.ID != "" {
		b.WriteString("id: ")
		b.WriteString(msg.ID)
		b.WriteByte('\n')
	}

	b.WriteString(encodeData(payloadText(msg.Data, jsonEncode)))
	return b.Bytes()
}

// payloadText resolves a payload of arbitrary shape to the text that
// goes on the data lines. With jsonEncode enabled everything is
// serialized to JSON regardless of its original shape; otherwise
// strings and byte slices pass through unchanged and any other value
// is coerced via JSON as a best effort. A nil payload is empty text.
func payloadText(data any, jsonEncode bool) string {
	if data == nil {
		return ""
	}
	if !jsonEncode {
		switch v := data.(type) {
		case string:
			return v
		case []byte:
			return string(v)
		}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprint(data)
	}
	return string(encoded)
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// encodeData renders payload text as "data:" lines. Every line-break
// variant (CR, LF, CRLF) is normalized to LF first, then each physical
// line gets its own "data:" prefix so the payload stays one logical
// event; clients reassemble the lines with embedded newlines. The final
// line is followed by a blank line marking the event boundary.
func encodeData(payload string) string {
	lines := strings.Split(lineBreaks.Replace(payload), "\n")

	var b strings.Builder
	b.Grow(len(payload) + 7*len(lines) + 1)
	for _, line := range lines {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
