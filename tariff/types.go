package tariff

import "math"

// CellKind tells what a price matrix entry holds.
type CellKind uint8

const (
	// CellNull is an explicit null entry.
	CellNull CellKind = iota
	// CellNumber holds Value. The value may be NaN or infinite.
	CellNumber
	// CellOther is a non-numeric entry (string, boolean, object).
	CellOther
)

// PriceCell is one entry of a price matrix.
type PriceCell struct {
	Kind  CellKind
	Value float64
}

// Null is the explicit null price entry.
var Null = PriceCell{Kind: CellNull}

// Amount returns a numeric price entry.
func Amount(v float64) PriceCell {
	return PriceCell{Kind: CellNumber, Value: v}
}

// Finite returns the value when the cell holds a finite number.
func (c PriceCell) Finite() (float64, bool) {
	if c.Kind != CellNumber || math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return 0, false
	}
	return c.Value, true
}

// PriceMatrix is indexed [departure][arrival]. nil means no matrix.
type PriceMatrix [][]PriceCell

// Row returns the row for a departure index. ok is false when the index is
// outside the matrix or the row is missing.
func (m PriceMatrix) Row(i int) ([]PriceCell, bool) {
	if i < 0 || i >= len(m) || m[i] == nil {
		return nil, false
	}
	return m[i], true
}

// Cell returns the entry at (row, col). ok is false when the entry is
// undefined, i.e. the row is missing or shorter than col+1.
func (m PriceMatrix) Cell(row, col int) (PriceCell, bool) {
	r, ok := m.Row(row)
	if !ok || col < 0 || col >= len(r) {
		return PriceCell{}, false
	}
	return r[col], true
}

// CodeMatrix is indexed [departure][arrival]. nil means no matrix.
type CodeMatrix [][]string

// Cell returns the ticket code at (row, col), "" when undefined.
func (m CodeMatrix) Cell(row, col int) string {
	if row < 0 || row >= len(m) {
		return ""
	}
	r := m[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Line is one transit route. Stop positions are the canonical stop
// identifiers for both matrices.
type Line struct {
	Name   string
	Stops  []string
	Prices PriceMatrix
	Codes  CodeMatrix
}

// FareTable is the ordered list of lines. A nil entry stands for a missing
// line and is never selectable.
type FareTable []*Line

// Line returns the line at index i.
func (t FareTable) Line(i int) (*Line, bool) {
	if i < 0 || i >= len(t) || t[i] == nil {
		return nil, false
	}
	return t[i], true
}

// FindByName returns the first line with the given name.
func (t FareTable) FindByName(name string) (*Line, int, bool) {
	for i, l := range t {
		if l != nil && l.Name == name {
			return l, i, true
		}
	}
	return nil, -1, false
}

// FareUpdate is a name-keyed ticket code override.
type FareUpdate struct {
	Departure  string `json:"partenza"`
	Arrival    string `json:"arrivo"`
	TicketCode string `json:"codice_biglietto"`
}

// Document is a complete published fare table.
type Document struct {
	Version   string
	UpdatedAt string
	Lines     FareTable
	Updates   []FareUpdate
}
