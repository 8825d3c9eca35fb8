// Package metrics holds the Prometheus collectors shared by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	QuoteCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffe_quote_count",
		Help: "Number of fare quotes computed, by validity",
	}, []string{"valid"})
	TableLoadCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffe_table_load_count",
		Help: "Number of fare table loads, by outcome (ok, cache, error)",
	}, []string{"outcome"})
	TableLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tariffe_table_lines",
		Help: "Number of lines in the loaded fare table",
	})
	AlertRefreshCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffe_alert_refresh_count",
		Help: "Number of service alert feed refreshes, by outcome",
	}, []string{"outcome"})
	RequestDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "tariffe_http_request_seconds",
		Help: "Latency of HTTP API requests",
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(QuoteCount, TableLoadCount, TableLines, AlertRefreshCount, RequestDuration)
}

// ObserveQuote counts a computed quote.
func ObserveQuote(valid bool) {
	if valid {
		QuoteCount.With(prometheus.Labels{"valid": "true"}).Inc()
		return
	}
	QuoteCount.With(prometheus.Labels{"valid": "false"}).Inc()
}
