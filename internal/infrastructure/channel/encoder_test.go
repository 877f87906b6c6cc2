package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name       string
		msg        *Message
		jsonEncode bool
		want       string
	}{
		{
			name: "plain text",
			msg:  Text("hello"),
			want: "data: hello\n\n",
		},
		{
			name: "event and id",
			msg:  &Message{Event: "ping", ID: "7", Data: "x"},
			want: "event: ping\nid: 7\ndata: x\n\n",
		},
		{
			name: "multi-line payload",
			msg:  Text("a\nb"),
			want: "data: a\ndata: b\n\n",
		},
		{
			name:       "json encoded payload",
			msg:        &Message{Data: map[string]int{"x": 1}},
			jsonEncode: true,
			want:       "data: {\"x\":1}\n\n",
		},
		{
			name:       "json encodes strings too",
			msg:        Text("hello"),
			jsonEncode: true,
			want:       "data: \"hello\"\n\n",
		},
		{
			name: "retry override",
			msg:  &Message{Event: "tick", Retry: 3000, Data: "1"},
			want: "event: tick\nretry: 3000\ndata: 1\n\n",
		},
		{
			name: "absent payload is empty text",
			msg:  &Message{},
			want: "data: \n\n",
		},
		{
			name: "byte slice passes through",
			msg:  &Message{Data: []byte("raw")},
			want: "data: raw\n\n",
		},
		{
			name: "crlf and cr normalized",
			msg:  Text("a\r\nb\rc"),
			want: "data: a\ndata: b\ndata: c\n\n",
		},
		{
			name: "non-text payload coerced without json flag",
			msg:  &Message{Data: map[string]int{"x": 1}},
			want: "data: {\"x\":1}\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.msg, tt.jsonEncode)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	msg := &Message{Event: "e", ID: "1", Data: map[string]any{"b": 2, "a": 1}}
	first := Encode(msg, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Encode(msg, true))
	}
}
