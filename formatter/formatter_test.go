package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tplfvg/tariffe/metrics"
	"github.com/tplfvg/tariffe/pricing"
	"github.com/tplfvg/tariffe/tariff"
)

func sampleTable() tariff.FareTable {
	return tariff.FareTable{{
		Name:   "Udine & Grado",
		Stops:  []string{"Udine", "Grado"},
		Prices: tariff.PriceMatrix{{tariff.Null, tariff.Amount(4.5)}, {tariff.Amount(4.5), tariff.Null}},
		Codes:  tariff.CodeMatrix{{"", "E4"}, {"E4", ""}},
	}}
}

// TestNewQuote tests quote building for valid and invalid selections
func TestNewQuote(t *testing.T) {
	q := NewQuote(pricing.Indices(0, 0, 1), sampleTable(), nil)
	if !q.Valid || !q.Available || q.Code != "E4" || q.Formatted != "4.50 €" {
		t.Errorf("quote = %+v", q)
	}
	if q.From != "Udine" || q.To != "Grado" || q.Timestamp == "" {
		t.Errorf("names = %q %q", q.From, q.To)
	}

	bad := NewQuote(pricing.NewSelection("", 0, 1), sampleTable(), nil)
	if bad.Valid || bad.Available || bad.Price != nil || bad.Formatted != "-" || bad.Line != "" {
		t.Errorf("invalid quote = %+v", bad)
	}
}

// TestNewQuote_CountsQuotes tests that quotes are counted here and not by the calculator
func TestNewQuote_CountsQuotes(t *testing.T) {
	valid := metrics.QuoteCount.WithLabelValues("true")
	before := testutil.ToFloat64(valid)

	pricing.CalculatePrice(pricing.Indices(0, 0, 1), sampleTable(), nil)
	if got := testutil.ToFloat64(valid); got != before {
		t.Errorf("CalculatePrice changed the quote counter: %v -> %v", before, got)
	}

	NewQuote(pricing.Indices(0, 0, 1), sampleTable(), nil)
	if got := testutil.ToFloat64(valid); got != before+1 {
		t.Errorf("quote counter = %v, want %v", got, before+1)
	}
}

// TestBuildJSON tests the JSON payload shape
func TestBuildJSON(t *testing.T) {
	rb := NewResponseBuilder()
	data := rb.BuildJSON(NewQuote(pricing.Indices(0, 1, 1), sampleTable(), nil).WithVersion("1.6.0"))

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v, ok := payload["price"]; !ok || v != nil {
		t.Errorf("price = %v, want explicit null", v)
	}
	if payload["code"] != "" || payload["valid"] != false || payload["version"] != "1.6.0" {
		t.Errorf("payload = %v", payload)
	}
}

// TestBuildXML tests XML escaping and optional elements
func TestBuildXML(t *testing.T) {
	xml := string(NewResponseBuilder().BuildXML(NewQuote(pricing.Indices(0, 0, 1), sampleTable(), nil)))
	for _, want := range []string{"<Line>Udine &amp; Grado</Line>", "<Price>4.50</Price>", "<Valid>true</Valid>", "<Code>E4</Code>"} {
		if !strings.Contains(xml, want) {
			t.Errorf("XML missing %s: %s", want, xml)
		}
	}
	empty := string(NewResponseBuilder().BuildXML(Quote{}))
	if strings.Contains(empty, "<Price>") || !strings.Contains(empty, "<Valid>false</Valid>") {
		t.Errorf("empty quote XML = %s", empty)
	}
}

// TestBuildText tests the terminal rendering
func TestBuildText(t *testing.T) {
	rb := NewResponseBuilder()
	text := rb.BuildText(NewQuote(pricing.Indices(0, 1, 0), sampleTable(), nil))
	if !strings.Contains(text, "Grado -> Udine") || !strings.Contains(text, "price: 4.50 €") || !strings.Contains(text, "ticket: E4") {
		t.Errorf("text = %q", text)
	}
	if got := rb.BuildText(Quote{}); got != "no fare available\n" {
		t.Errorf("invalid text = %q", got)
	}
}
