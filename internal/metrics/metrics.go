// Package metrics exposes Prometheus instrumentation for the SSE
// channel. The Observer implements channel.Listener, so metrics ride on
// the same notification contract any other observer would use.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"go-sse-channel/internal/infrastructure/channel"
)

var (
	// ConnectionsTotal counts connections accepted since startup.
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_connections_total",
			Help: "Total SSE connections accepted",
		},
	)

	// DisconnectsTotal counts connections removed since startup.
	DisconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_disconnects_total",
			Help: "Total SSE connections removed",
		},
	)

	// OpenConnections tracks the number of currently open connections.
	OpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_open_connections",
			Help: "Currently open SSE connections",
		},
	)

	// MessagesTotal counts publishes since startup.
	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_messages_total",
			Help: "Total messages published",
		},
	)

	// RecipientsTotal counts per-connection deliveries attempted.
	RecipientsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_message_recipients_total",
			Help: "Total per-connection message deliveries attempted",
		},
	)
)

// Observer updates the channel metrics from lifecycle notifications.
type Observer struct{}

var _ channel.Listener = (*Observer)(nil)

// NewObserver returns an Observer ready to subscribe to a channel.
func NewObserver() *Observer { return &Observer{} }

func (o *Observer) OnConnect(_ *http.Request, _ http.ResponseWriter) {
	ConnectionsTotal.Inc()
	OpenConnections.Inc()
}

func (o *Observer) OnDisconnect(_ *channel.Channel, _ *channel.Connection) {
	DisconnectsTotal.Inc()
	OpenConnections.Dec()
}

func (o *Observer) OnMessage(_ *channel.Channel, _ *channel.Message, recipients []*channel.Connection) {
	MessagesTotal.Inc()
	RecipientsTotal.Add(float64(len(recipients)))
}
