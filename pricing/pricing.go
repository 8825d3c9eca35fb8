package pricing

import (
	"errors"
	"log"

	"github.com/tplfvg/tariffe/tariff"
)

var (
	ErrIncompleteSelection = errors.New("pricing: line, departure and arrival are required")
	ErrNoFareTable         = errors.New("pricing: fare table is empty")
	ErrUnknownLine         = errors.New("pricing: no such line")
	ErrSameStop            = errors.New("pricing: departure and arrival are the same stop")
	ErrNoStops             = errors.New("pricing: line has no stops")
	ErrStopOutOfRange      = errors.New("pricing: stop index out of range")
)

// Result is a fare quote. A zero Result is the "no usable fare data" answer.
type Result struct {
	Price *float64 `json:"price"`
	Code  string   `json:"code"`
	Valid bool     `json:"valid"`
}

// Formatted renders the price for display.
func (r Result) Formatted() string {
	return FormatPrice(r.Price)
}

// Validate checks a selection against the table and resolves its line.
// Checks run in a fixed order and the first failure is returned.
func Validate(sel Selection, table tariff.FareTable) (*tariff.Line, error) {
	if !sel.Complete() {
		return nil, ErrIncompleteSelection
	}
	if len(table) == 0 {
		return nil, ErrNoFareTable
	}
	line, ok := table.Line(sel.Line.Value)
	if !ok {
		return nil, ErrUnknownLine
	}
	dep, arr := sel.Departure.Value, sel.Arrival.Value
	if dep == arr {
		return nil, ErrSameStop
	}
	if len(line.Stops) == 0 {
		return nil, ErrNoStops
	}
	n := len(line.Stops)
	if dep < 0 || dep >= n || arr < 0 || arr >= n {
		return nil, ErrStopOutOfRange
	}
	return line, nil
}

// IsValidSelection reports whether sel resolves to two distinct stops of an
// existing line.
func IsValidSelection(sel Selection, table tariff.FareTable) bool {
	_, err := Validate(sel, table)
	return err == nil
}

// IsRouteAvailable reports whether the price matrix defines an entry for the
// selected pair. An explicit null entry counts as defined; only a missing
// row or a row too short for the arrival index does not.
func IsRouteAvailable(sel Selection, table tariff.FareTable) bool {
	line, err := Validate(sel, table)
	if err != nil {
		return false
	}
	if line.Prices == nil {
		return false
	}
	_, ok := line.Prices.Cell(sel.Departure.Value, sel.Arrival.Value)
	return ok
}

// TicketCode returns the ticket code for sel, or "". When the code matrix has
// no entry the first update record matching both stop names is used.
func TicketCode(sel Selection, table tariff.FareTable, updates []tariff.FareUpdate) (code string) {
	line, err := Validate(sel, table)
	if err != nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("warn: ticket code lookup failed: %v", r)
			code = ""
		}
	}()
	return ticketCode(line, sel.Departure.Value, sel.Arrival.Value, updates)
}

func ticketCode(line *tariff.Line, dep, arr int, updates []tariff.FareUpdate) string {
	if code := line.Codes.Cell(dep, arr); code != "" {
		return code
	}
	if updates == nil {
		return ""
	}
	from, to := line.Stops[dep], line.Stops[arr]
	if from == "" || to == "" {
		return ""
	}
	for _, u := range updates {
		if u.Departure == from && u.Arrival == to {
			return u.TicketCode
		}
	}
	return ""
}

// CalculatePrice quotes the fare for sel. It never panics: malformed data
// yields the zero Result.
func CalculatePrice(sel Selection, table tariff.FareTable, updates []tariff.FareUpdate) (res Result) {
	line, err := Validate(sel, table)
	if err != nil {
		return Result{}
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("warn: price calculation failed: %v", r)
			res = Result{}
		}
	}()

	if line.Prices == nil && line.Codes == nil {
		return Result{}
	}
	dep, arr := sel.Departure.Value, sel.Arrival.Value
	if cell, ok := line.Prices.Cell(dep, arr); ok {
		if v, ok := cell.Finite(); ok {
			res.Price = &v
		}
	}
	res.Code = ticketCode(line, dep, arr, updates)
	res.Valid = res.Price != nil || res.Code != ""
	return res
}
