package alerts

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tplfvg/tariffe/metrics"
)

// Monitor keeps the latest alert feed.
type Monitor struct {
	client   *Client
	url      string
	interval time.Duration

	mu   sync.RWMutex
	feed *Feed
}

// NewMonitor creates a monitor for url. A non-positive interval means one
// minute.
func NewMonitor(client *Client, url string, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Monitor{
		client:   client,
		url:      url,
		interval: interval,
		feed:     &Feed{Alerts: []Alert{}, byRoute: map[string][]int{}},
	}
}

// Feed returns the latest feed. It is empty until the first refresh succeeds.
func (m *Monitor) Feed() *Feed {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.feed
}

// Refresh fetches and parses the feed once. On failure the previous feed is
// kept and the error returned.
func (m *Monitor) Refresh(ctx context.Context) error {
	data, err := m.client.Fetch(ctx, m.url)
	if err != nil {
		metrics.AlertRefreshCount.WithLabelValues("error").Inc()
		return err
	}
	if data == nil {
		metrics.AlertRefreshCount.WithLabelValues("skipped").Inc()
		return nil
	}
	feed, err := Parse(data)
	if err != nil {
		metrics.AlertRefreshCount.WithLabelValues("error").Inc()
		return err
	}
	m.mu.Lock()
	m.feed = feed
	m.mu.Unlock()
	metrics.AlertRefreshCount.WithLabelValues("ok").Inc()
	return nil
}

// Run refreshes immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	if m.url == "" {
		log.Printf("alerts: no feed configured")
		return
	}
	if err := m.Refresh(ctx); err != nil {
		log.Printf("warn: alert refresh failed: %v", err)
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil {
				log.Printf("warn: alert refresh failed: %v", err)
			}
		}
	}
}
