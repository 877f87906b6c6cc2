package channel

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sse", nil)
	conn := newConnection("c1", rec, req)

	require.NoError(t, conn.Write([]byte("data: hi\n\n")))
	assert.Equal(t, "data: hi\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestConnectionWriteAfterClose(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sse", nil)
	conn := newConnection("c1", rec, req)

	conn.Close()
	err := conn.Write([]byte("data: hi\n\n"))
	assert.ErrorIs(t, err, errClosed)
	assert.Empty(t, rec.Body.String())
}

func TestConnectionCloseIdempotent(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sse", nil)
	conn := newConnection("c1", rec, req)

	conn.Close()
	conn.Close() // must not panic on the closed done channel

	select {
	case <-conn.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}
