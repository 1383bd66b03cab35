package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	framesReceived *prometheus.CounterVec
	parseFailures  prometheus.Counter
	articles       prometheus.Counter
	subscriptions  prometheus.Counter
	sendFailures   prometheus.Counter
	rejections     prometheus.Counter
	sessionState   *prometheus.GaugeVec
	feedSize       prometheus.Gauge
	eventAge       prometheus.Histogram
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		framesReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nosread_frames_received_total",
				Help: "Total number of inbound relay frames by type",
			},
			[]string{"type"},
		),
		parseFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nosread_frame_parse_failures_total",
				Help: "Total number of inbound frames dropped as malformed",
			},
		),
		articles: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nosread_articles_projected_total",
				Help: "Total number of events projected into articles",
			},
		),
		subscriptions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nosread_subscriptions_total",
				Help: "Total number of subscription requests sent",
			},
		),
		sendFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nosread_send_failures_total",
				Help: "Total number of transport write failures",
			},
		),
		rejections: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nosread_relay_rejections_total",
				Help: "Total number of OK frames with accepted=false",
			},
		),
		sessionState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nosread_session_state",
				Help: "Current relay session state (1 for the active state)",
			},
			[]string{"state"},
		),
		feedSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "nosread_feed_size",
				Help: "Number of articles in the current feed",
			},
		),
		eventAge: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nosread_event_age_seconds",
				Help:    "Age of events at arrival, by created_at",
				Buckets: []float64{1, 10, 60, 600, 3600, 86400, 604800},
			},
		),
	}
}

// RecordFrame counts an inbound frame by type
func (c *Collector) RecordFrame(frameType string) {
	c.framesReceived.WithLabelValues(frameType).Inc()
}

// RecordParseFailure counts a dropped malformed frame
func (c *Collector) RecordParseFailure() {
	c.parseFailures.Inc()
}

// RecordArticle counts a projected article and its event age
func (c *Collector) RecordArticle(eventAge time.Duration) {
	c.articles.Inc()
	if eventAge > 0 {
		c.eventAge.Observe(eventAge.Seconds())
	}
}

// RecordSubscription counts a subscription request
func (c *Collector) RecordSubscription() {
	c.subscriptions.Inc()
}

// RecordSendFailure counts a transport write failure
func (c *Collector) RecordSendFailure() {
	c.sendFailures.Inc()
}

// RecordRejection counts a relay rejection
func (c *Collector) RecordRejection() {
	c.rejections.Inc()
}

// SetSessionState marks the given state as active
func (c *Collector) SetSessionState(state string) {
	for _, s := range []string{"idle", "connecting", "open", "closed"} {
		value := 0.0
		if s == state {
			value = 1.0
		}
		c.sessionState.WithLabelValues(s).Set(value)
	}
}

// SetFeedSize sets the current feed length
func (c *Collector) SetFeedSize(n int) {
	c.feedSize.Set(float64(n))
}
