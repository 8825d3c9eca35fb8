// Package pricing quotes fares from a loaded fare table.
//
// A quote is a pure function of a Selection (line, departure and arrival
// indices), the fare table and an optional list of fare updates:
//
//	sel := pricing.NewSelection("0", 0, "1")
//	res := pricing.CalculatePrice(sel, table, updates)
//	fmt.Println(res.Formatted(), res.Code)
//
// Selector values arrive loosely typed from forms and query strings.
// NewSelection normalises them once; an unparsable selector makes the whole
// selection invalid rather than an error.
//
// None of the functions panic on malformed tables. An invalid selection or a
// line without data yields the zero Result: no price, no code, not valid.
// The price matrix and the code matrix are independent, so a quote with only
// a code (or only a price) is still valid.
package pricing
