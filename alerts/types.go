package alerts

import "time"

// Period is an active window in Unix seconds. A zero bound is open.
type Period struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t int64) bool {
	if p.Start != 0 && t < p.Start {
		return false
	}
	if p.End != 0 && t > p.End {
		return false
	}
	return true
}

// Alert is a simplified GTFS-RT alert.
type Alert struct {
	ID          string   `json:"id"`
	Header      string   `json:"header"`
	Description string   `json:"description,omitempty"`
	Cause       string   `json:"cause,omitempty"`
	Effect      string   `json:"effect,omitempty"`
	Severity    string   `json:"severity,omitempty"`
	Start       int64    `json:"start,omitempty"` // first active window
	End         int64    `json:"end,omitempty"`
	Periods     []Period `json:"-"`
	RouteIDs    []string `json:"routeIds,omitempty"`
	StopIDs     []string `json:"stopIds,omitempty"`
}

// Active reports whether the alert applies at now. An alert without active
// periods is always active.
func (a Alert) Active(now time.Time) bool {
	if len(a.Periods) == 0 {
		return true
	}
	ts := now.Unix()
	for _, p := range a.Periods {
		if p.Contains(ts) {
			return true
		}
	}
	return false
}

// Feed is a parsed alert feed.
type Feed struct {
	Timestamp int64
	Alerts    []Alert
	byRoute   map[string][]int // route_id -> indices in Alerts
}

// ForRoutes returns the alerts active at now that name any of routeIDs,
// each at most once and in feed order.
func (f *Feed) ForRoutes(routeIDs []string, now time.Time) []Alert {
	if f == nil {
		return nil
	}
	seen := map[int]bool{}
	for _, rid := range routeIDs {
		for _, idx := range f.byRoute[rid] {
			seen[idx] = true
		}
	}
	out := []Alert{}
	for i, a := range f.Alerts {
		if seen[i] && a.Active(now) {
			out = append(out, a)
		}
	}
	return out
}
