package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sse-channel/internal/infrastructure/channel"
	"go-sse-channel/internal/infrastructure/logger"
)

func newTestRouter(ch *channel.Channel) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewChannelHandler(ch, logger.NewNop())
	router.POST("/publish", h.Publish)
	router.POST("/retry", h.Retry)
	router.POST("/close", h.Close)
	router.GET("/connections", h.Connections)
	return router
}

func addStream(t *testing.T, ch *channel.Channel, id string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sse?id="+id, nil)
	_, added := ch.AddConnection(rec, req, id)
	require.True(t, added)
	return rec
}

func TestPublishEndpoint(t *testing.T) {
	ch := channel.New(channel.Options{}, logger.NewNop())
	router := newTestRouter(ch)
	stream := addStream(t, ch, "u1")

	body := `{"event":"tick","data":"1"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/publish", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, stream.Body.String(), "event: tick\ndata: 1\n\n")
}

func TestPublishEndpointTargets(t *testing.T) {
	ch := channel.New(channel.Options{}, logger.NewNop())
	router := newTestRouter(ch)
	u1 := addStream(t, ch, "u1")
	u2 := addStream(t, ch, "u2")

	body := `{"data":"x","targets":["u2"]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/publish", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, u1.Body.String(), "data: x")
	assert.Contains(t, u2.Body.String(), "data: x\n\n")
}

func TestPublishEndpointRejectsMalformedBody(t *testing.T) {
	ch := channel.New(channel.Options{}, logger.NewNop())
	router := newTestRouter(ch)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/publish", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRetryEndpoint(t *testing.T) {
	ch := channel.New(channel.Options{}, logger.NewNop())
	router := newTestRouter(ch)
	stream := addStream(t, ch, "u1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/retry", strings.NewReader(`{"interval_ms":5000}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, stream.Body.String(), "retry: 5000\n")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/retry", strings.NewReader(`{"interval_ms":0}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseEndpoint(t *testing.T) {
	ch := channel.New(channel.Options{}, logger.NewNop())
	router := newTestRouter(ch)
	addStream(t, ch, "u1")
	addStream(t, ch, "u2")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/close", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ch.ConnectionCount())
}

func TestConnectionsEndpoint(t *testing.T) {
	ch := channel.New(channel.Options{}, logger.NewNop())
	router := newTestRouter(ch)
	addStream(t, ch, "u1")
	addStream(t, ch, "u2")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/connections", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_connections":2,"connection_ids":["u1","u2"]}`, rec.Body.String())
}
