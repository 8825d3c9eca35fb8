package formatter

import (
	"github.com/tplfvg/tariffe/metrics"
	"github.com/tplfvg/tariffe/pricing"
	"github.com/tplfvg/tariffe/tariff"
	"github.com/tplfvg/tariffe/utils"
)

// Quote is the response for one fare lookup. Line, From and To are the
// resolved names and stay empty for an invalid selection.
type Quote struct {
	Line      string   `json:"line,omitempty"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	Price     *float64 `json:"price"`
	Code      string   `json:"code"`
	Valid     bool     `json:"valid"`
	Formatted string   `json:"formatted"`
	Available bool     `json:"available"`
	Version   string   `json:"version,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// NewQuote prices sel against the table and collects the display fields.
func NewQuote(sel pricing.Selection, table tariff.FareTable, updates []tariff.FareUpdate) Quote {
	res := pricing.CalculatePrice(sel, table, updates)
	metrics.ObserveQuote(res.Valid)
	q := Quote{
		Price:     res.Price,
		Code:      res.Code,
		Valid:     res.Valid,
		Formatted: res.Formatted(),
		Available: pricing.IsRouteAvailable(sel, table),
		Timestamp: utils.Iso8601Now(),
	}
	if line, err := pricing.Validate(sel, table); err == nil {
		q.Line = line.Name
		q.From = line.Stops[sel.Departure.Value]
		q.To = line.Stops[sel.Arrival.Value]
	}
	return q
}

// WithVersion stamps the fare table version on the quote.
func (q Quote) WithVersion(v string) Quote {
	q.Version = v
	return q
}
