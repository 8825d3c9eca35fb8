package pricing

import (
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/tplfvg/tariffe/tariff"
)

func prices(rows ...[]tariff.PriceCell) tariff.PriceMatrix { return tariff.PriceMatrix(rows) }

func row(vals ...any) []tariff.PriceCell {
	out := make([]tariff.PriceCell, len(vals))
	for i, v := range vals {
		switch t := v.(type) {
		case nil:
			out[i] = tariff.Null
		case float64:
			out[i] = tariff.Amount(t)
		default:
			out[i] = tariff.PriceCell{Kind: tariff.CellOther}
		}
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

// scenarioTable is a three stop line with full price and code matrices.
func scenarioTable() tariff.FareTable {
	return tariff.FareTable{{
		Name:  "L1",
		Stops: []string{"A", "B", "C"},
		Prices: prices(
			row(nil, 1.5, 2.0),
			row(1.5, nil, 1.0),
			row(2.0, 1.0, nil),
		),
		Codes: tariff.CodeMatrix{
			{"", "E1", "E2"},
			{"E1", "", "E3"},
			{"E2", "E3", ""},
		},
	}}
}

// TestCalculatePrice_Scenarios covers the documented quote scenarios
func TestCalculatePrice_Scenarios(t *testing.T) {
	nanTable := tariff.FareTable{{
		Name:   "L1",
		Stops:  []string{"A", "B"},
		Prices: prices(row(nil, math.NaN()), row(math.NaN(), nil)),
	}}

	tests := []struct {
		name    string
		sel     Selection
		table   tariff.FareTable
		updates []tariff.FareUpdate
		want    Result
	}{
		{"full match", Indices(0, 0, 1), scenarioTable(), nil, Result{Price: floatPtr(1.5), Code: "E1", Valid: true}},
		{"reverse", Indices(0, 2, 1), scenarioTable(), nil, Result{Price: floatPtr(1.0), Code: "E3", Valid: true}},
		{"same stop", Indices(0, 0, 0), scenarioTable(), nil, Result{}},
		{"NaN price and no codes", Indices(0, 0, 1), nanTable, nil, Result{}},
		{"string selectors", NewSelection("0", "0", "2"), scenarioTable(), nil, Result{Price: floatPtr(2.0), Code: "E2", Valid: true}},
		{"empty selector", NewSelection("", 0, 1), scenarioTable(), nil, Result{}},
		{"unknown line", Indices(3, 0, 1), scenarioTable(), nil, Result{}},
		{"out of range stop", Indices(0, 0, 3), scenarioTable(), nil, Result{}},
		{"negative stop", Indices(0, -1, 1), scenarioTable(), nil, Result{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePrice(tt.sel, tt.table, tt.updates)
			assertResult(t, got, tt.want)
		})
	}
}

func assertResult(t *testing.T, got, want Result) {
	t.Helper()
	if (got.Price == nil) != (want.Price == nil) {
		t.Fatalf("price = %v, want %v", got.Price, want.Price)
	}
	if got.Price != nil && *got.Price != *want.Price {
		t.Errorf("price = %v, want %v", *got.Price, *want.Price)
	}
	if got.Code != want.Code {
		t.Errorf("code = %q, want %q", got.Code, want.Code)
	}
	if got.Valid != want.Valid {
		t.Errorf("valid = %v, want %v", got.Valid, want.Valid)
	}
}

// TestCalculatePrice_PartialData tests quotes on lines with only one matrix
func TestCalculatePrice_PartialData(t *testing.T) {
	codesOnly := tariff.FareTable{{
		Name:  "L2",
		Stops: []string{"A", "B"},
		Codes: tariff.CodeMatrix{{"", "U1"}, {"U1", ""}},
	}}
	res := CalculatePrice(Indices(0, 0, 1), codesOnly, nil)
	assertResult(t, res, Result{Code: "U1", Valid: true})

	pricesOnly := tariff.FareTable{{
		Name:   "L3",
		Stops:  []string{"A", "B"},
		Prices: prices(row(nil, 4.0), row(4.0, nil)),
	}}
	res = CalculatePrice(Indices(0, 1, 0), pricesOnly, nil)
	assertResult(t, res, Result{Price: floatPtr(4.0), Valid: true})

	noData := tariff.FareTable{{Name: "L4", Stops: []string{"A", "B"}}}
	res = CalculatePrice(Indices(0, 0, 1), noData, []tariff.FareUpdate{{Departure: "A", Arrival: "B", TicketCode: "E1"}})
	assertResult(t, res, Result{})

	// present but empty matrices still count as data, so the fallback runs
	emptyMatrices := tariff.FareTable{{
		Name:   "L5",
		Stops:  []string{"A", "B"},
		Prices: tariff.PriceMatrix{},
	}}
	res = CalculatePrice(Indices(0, 0, 1), emptyMatrices, []tariff.FareUpdate{{Departure: "A", Arrival: "B", TicketCode: "E1"}})
	assertResult(t, res, Result{Code: "E1", Valid: true})
}

// TestCalculatePrice_RejectsNonFinite tests that only finite numbers become prices
func TestCalculatePrice_RejectsNonFinite(t *testing.T) {
	cells := []tariff.PriceCell{
		tariff.Null,
		tariff.Amount(math.NaN()),
		tariff.Amount(math.Inf(1)),
		tariff.Amount(math.Inf(-1)),
		{Kind: tariff.CellOther},
	}
	for _, cell := range cells {
		table := tariff.FareTable{{
			Name:   "L",
			Stops:  []string{"A", "B"},
			Prices: tariff.PriceMatrix{{tariff.Null, cell}, {cell, tariff.Null}},
		}}
		res := CalculatePrice(Indices(0, 0, 1), table, nil)
		if res.Price != nil || res.Valid {
			t.Errorf("cell %+v: got %+v, want zero result", cell, res)
		}
	}
}

// TestTicketCode_Fallback tests the name-keyed update lookup
func TestTicketCode_Fallback(t *testing.T) {
	table := tariff.FareTable{{
		Name:  "L1",
		Stops: []string{"A", "B"},
		Codes: tariff.CodeMatrix{{"", ""}, {"", ""}},
	}}

	tests := []struct {
		name    string
		sel     Selection
		updates []tariff.FareUpdate
		want    string
	}{
		{"match", Indices(0, 0, 1), []tariff.FareUpdate{{Departure: "A", Arrival: "B", TicketCode: "X9"}}, "X9"},
		{"direction matters", Indices(0, 1, 0), []tariff.FareUpdate{{Departure: "A", Arrival: "B", TicketCode: "X9"}}, ""},
		{"first match wins", Indices(0, 0, 1), []tariff.FareUpdate{
			{Departure: "A", Arrival: "C", TicketCode: "Z"},
			{Departure: "A", Arrival: "B", TicketCode: "X1"},
			{Departure: "A", Arrival: "B", TicketCode: "X2"},
		}, "X1"},
		{"first match with empty code ends search", Indices(0, 0, 1), []tariff.FareUpdate{
			{Departure: "A", Arrival: "B"},
			{Departure: "A", Arrival: "B", TicketCode: "X2"},
		}, ""},
		{"no updates", Indices(0, 0, 1), nil, ""},
		{"invalid selection", Indices(0, 1, 1), []tariff.FareUpdate{{Departure: "B", Arrival: "B", TicketCode: "X9"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TicketCode(tt.sel, table, tt.updates); got != tt.want {
				t.Errorf("TicketCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestTicketCode_PrimaryWins tests that the code matrix beats the update list
func TestTicketCode_PrimaryWins(t *testing.T) {
	updates := []tariff.FareUpdate{{Departure: "A", Arrival: "B", TicketCode: "X9"}}
	if got := TicketCode(Indices(0, 0, 1), scenarioTable(), updates); got != "E1" {
		t.Errorf("TicketCode() = %q, want E1", got)
	}
}

// TestTicketCode_EmptyStopName tests that blank stop names never match updates
func TestTicketCode_EmptyStopName(t *testing.T) {
	table := tariff.FareTable{{Name: "L", Stops: []string{"", "B"}, Codes: tariff.CodeMatrix{}}}
	updates := []tariff.FareUpdate{{Departure: "", Arrival: "B", TicketCode: "X"}}
	if got := TicketCode(Indices(0, 0, 1), table, updates); got != "" {
		t.Errorf("TicketCode() = %q, want empty", got)
	}
}

// TestIsRouteAvailable tests matrix entry presence, including the null quirk
func TestIsRouteAvailable(t *testing.T) {
	table := tariff.FareTable{{
		Name:   "L1",
		Stops:  []string{"A", "B", "C"},
		Prices: tariff.PriceMatrix{row(nil, 1.0), row(nil, nil, nil), nil},
	}}

	tests := []struct {
		name string
		sel  Selection
		want bool
	}{
		{"defined price", Indices(0, 0, 1), true},
		// A null entry is reported as available even though it has no price.
		{"null entry counts as defined", Indices(0, 1, 0), true},
		{"row shorter than stops", Indices(0, 0, 2), false},
		{"missing row", Indices(0, 2, 0), false},
		{"same stop", Indices(0, 1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRouteAvailable(tt.sel, table); got != tt.want {
				t.Errorf("IsRouteAvailable() = %v, want %v", got, tt.want)
			}
		})
	}

	noPrices := tariff.FareTable{{Name: "L", Stops: []string{"A", "B"}, Codes: tariff.CodeMatrix{{"", "E1"}}}}
	if IsRouteAvailable(Indices(0, 0, 1), noPrices) {
		t.Error("line without prices should not be available")
	}
}

// TestValidate_Order tests which error each invalid selection reports
func TestValidate_Order(t *testing.T) {
	table := tariff.FareTable{
		{Name: "L1", Stops: []string{"A", "B"}},
		nil,
		{Name: "L3"},
	}
	tests := []struct {
		name  string
		sel   Selection
		table tariff.FareTable
		want  error
	}{
		{"missing arrival", NewSelection(0, 1, nil), table, ErrIncompleteSelection},
		{"garbage selector", NewSelection("abc", 0, 1), table, ErrIncompleteSelection},
		{"nil table", Indices(0, 0, 1), nil, ErrNoFareTable},
		{"line beyond table", Indices(5, 0, 1), table, ErrUnknownLine},
		{"negative line", Indices(-1, 0, 1), table, ErrUnknownLine},
		{"nil line", Indices(1, 0, 1), table, ErrUnknownLine},
		{"same stop before stop check", Indices(2, 0, 0), table, ErrSameStop},
		{"no stops", Indices(2, 0, 1), table, ErrNoStops},
		{"departure out of range", Indices(0, 2, 1), table, ErrStopOutOfRange},
		{"ok", Indices(0, 1, 0), table, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.sel, tt.table)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
			if IsValidSelection(tt.sel, tt.table) != (tt.want == nil) {
				t.Errorf("IsValidSelection() disagrees with Validate()")
			}
		})
	}
}

// TestValidSelection_ImpliesBounds checks the index bounds of every valid selection
func TestValidSelection_ImpliesBounds(t *testing.T) {
	table := scenarioTable()
	for l := -1; l <= 2; l++ {
		for d := -2; d <= 4; d++ {
			for a := -2; a <= 4; a++ {
				sel := Indices(l, d, a)
				if !IsValidSelection(sel, table) {
					continue
				}
				n := len(table[l].Stops)
				if d < 0 || d >= n || a < 0 || a >= n || d == a {
					t.Errorf("selection %d/%d/%d accepted", l, d, a)
				}
			}
		}
	}
}

// TestCalculatePrice_Deterministic tests repeated quotes are identical
func TestCalculatePrice_Deterministic(t *testing.T) {
	table := scenarioTable()
	updates := []tariff.FareUpdate{{Departure: "A", Arrival: "B", TicketCode: "X"}}
	first := CalculatePrice(Indices(0, 1, 2), table, updates)
	for i := 0; i < 50; i++ {
		assertResult(t, CalculatePrice(Indices(0, 1, 2), table, updates), first)
	}
}

// TestMalformedTables_NeverPanic tests that degenerate shapes yield defaults
func TestMalformedTables_NeverPanic(t *testing.T) {
	tables := []tariff.FareTable{
		nil,
		{},
		{nil},
		{{}},
		{{Stops: []string{"A", "B"}, Prices: tariff.PriceMatrix{nil, nil}}},
		{{Stops: []string{"A", "B"}, Prices: tariff.PriceMatrix{{}}, Codes: tariff.CodeMatrix{nil, {}}}},
		{{Stops: []string{"A", "B"}, Codes: tariff.CodeMatrix{{"x"}}}},
	}
	updates := []tariff.FareUpdate{{}, {Departure: "A"}}
	for i, table := range tables {
		for _, sel := range []Selection{Indices(0, 0, 1), Indices(0, 1, 0), NewSelection(nil, nil, nil)} {
			res := CalculatePrice(sel, table, updates)
			if res.Price != nil || res.Code != "" || res.Valid {
				t.Errorf("table %d: got %+v", i, res)
			}
			if TicketCode(sel, table, updates) != "" {
				t.Errorf("table %d: unexpected code", i)
			}
			_ = IsRouteAvailable(sel, table)
			_ = IsValidSelection(sel, table)
		}
	}
}

// TestFormatPrice tests display formatting
func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"nil", nil, "-"},
		{"NaN", floatPtr(math.NaN()), "-"},
		{"Inf", floatPtr(math.Inf(1)), "-"},
		{"-Inf", floatPtr(math.Inf(-1)), "-"},
		{"one decimal", floatPtr(3.5), "3.50 €"},
		{"integer", floatPtr(4), "4.00 €"},
		{"zero", floatPtr(0), "0.00 €"},
		{"negative zero", floatPtr(math.Copysign(0, -1)), "0.00 €"},
		{"binary below tie", floatPtr(1.005), "1.00 €"},
		{"exact tie", floatPtr(0.125), "0.13 €"},
		{"round up", floatPtr(2.999), "3.00 €"},
		{"negative", floatPtr(-1.5), "-1.50 €"},
		{"tiny negative", floatPtr(-0.001), "-0.00 €"},
		{"large", floatPtr(123456.789), "123456.79 €"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.in); got != tt.want {
				t.Errorf("FormatPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFormatPrice_Pattern checks the output shape over many finite prices
func TestFormatPrice_Pattern(t *testing.T) {
	re := regexp.MustCompile(`^\d+\.\d{2} €$`)
	for _, v := range []float64{0, 0.004, 0.005, 0.1, 0.7, 1, 1.1, 9.995, 10, 99.99, 1e6, 1e15, 1e20} {
		if got := FormatPrice(&v); !re.MatchString(got) {
			t.Errorf("FormatPrice(%v) = %q", v, got)
		}
	}
}

// TestResult_Formatted tests the result display helper
func TestResult_Formatted(t *testing.T) {
	if got := (Result{}).Formatted(); got != "-" {
		t.Errorf("Formatted() = %q, want -", got)
	}
	if got := (Result{Price: floatPtr(1.5)}).Formatted(); got != "1.50 €" {
		t.Errorf("Formatted() = %q", got)
	}
}
