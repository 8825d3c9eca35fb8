package tariff

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrUnsupportedDocument is returned when the top-level JSON value is neither
// an array of lines nor an envelope object.
var ErrUnsupportedDocument = errors.New("tariff: document must be an array of lines or an object")

// Decode parses a fare table document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeReader parses a fare table document from r.
func DecodeReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fare table: %w", err)
	}
	return Decode(data)
}

// DecodeUpdates parses a standalone fare update list. Both a bare array and
// an envelope with an "updates" member are accepted.
func DecodeUpdates(data []byte) ([]FareUpdate, error) {
	switch rawKind(data) {
	case '[':
		return decodeUpdates(data), nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		return decodeUpdates(fields["updates"]), nil
	default:
		if !json.Valid(data) {
			return nil, errors.New("tariff: invalid JSON in fare updates")
		}
		return nil, ErrUnsupportedDocument
	}
}

// UnmarshalJSON accepts a bare array of lines or an envelope object.
func (d *Document) UnmarshalJSON(data []byte) error {
	switch rawKind(data) {
	case '[':
		lines, err := decodeTable(data)
		if err != nil {
			return err
		}
		*d = Document{Lines: lines}
		return nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		doc := Document{
			Version:   decodeString(fields["version"]),
			UpdatedAt: decodeString(fields["updated_at"]),
			Updates:   decodeUpdates(fields["updates"]),
		}
		if raw, ok := fields["lines"]; ok && rawKind(raw) == '[' {
			lines, err := decodeTable(raw)
			if err != nil {
				return err
			}
			doc.Lines = lines
		}
		*d = doc
		return nil
	default:
		return ErrUnsupportedDocument
	}
}

// MarshalJSON always writes the envelope form.
func (d Document) MarshalJSON() ([]byte, error) {
	lines := d.Lines
	if lines == nil {
		lines = FareTable{}
	}
	return json.Marshal(struct {
		Version   string       `json:"version,omitempty"`
		UpdatedAt string       `json:"updated_at,omitempty"`
		Lines     FareTable    `json:"lines"`
		Updates   []FareUpdate `json:"updates,omitempty"`
	}{d.Version, d.UpdatedAt, lines, d.Updates})
}

// UnmarshalJSON decodes a single line leniently.
func (l *Line) UnmarshalJSON(data []byte) error {
	line := decodeLine(data)
	if line == nil {
		return fmt.Errorf("tariff: line must be an object")
	}
	*l = *line
	return nil
}

// MarshalJSON writes the line with its Italian field names. Absent
// matrices are omitted.
func (l Line) MarshalJSON() ([]byte, error) {
	stops := l.Stops
	if stops == nil {
		stops = []string{}
	}
	out := struct {
		Name   string       `json:"nome"`
		Stops  []string     `json:"fermate"`
		Prices *PriceMatrix `json:"prezzi,omitempty"`
		Codes  *CodeMatrix  `json:"codici,omitempty"`
	}{Name: l.Name, Stops: stops}
	// Pointers keep an empty but present matrix in the output.
	if l.Prices != nil {
		out.Prices = &l.Prices
	}
	if l.Codes != nil {
		out.Codes = &l.Codes
	}
	return json.Marshal(out)
}

// MarshalJSON writes finite numbers as numbers and everything else as null.
func (c PriceCell) MarshalJSON() ([]byte, error) {
	if v, ok := c.Finite(); ok {
		return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
	}
	return []byte("null"), nil
}

func rawKind(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func decodeTable(raw []byte) (FareTable, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	table := make(FareTable, len(items))
	for i, item := range items {
		table[i] = decodeLine(item)
	}
	return table, nil
}

func decodeLine(raw []byte) *Line {
	if rawKind(raw) != '{' {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return &Line{
		Name:   decodeString(fields["nome"]),
		Stops:  decodeStrings(fields["fermate"]),
		Prices: decodePrices(fields["prezzi"]),
		Codes:  decodeCodes(fields["codici"]),
	}
}

func decodeString(raw json.RawMessage) string {
	if rawKind(raw) != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if rawKind(raw) != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func decodeStrings(raw json.RawMessage) []string {
	items, ok := decodeArray(raw)
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = decodeString(item)
	}
	return out
}

func decodePrices(raw json.RawMessage) PriceMatrix {
	rows, ok := decodeArray(raw)
	if !ok {
		return nil
	}
	m := make(PriceMatrix, len(rows))
	for i, row := range rows {
		cells, ok := decodeArray(row)
		if !ok {
			continue
		}
		m[i] = make([]PriceCell, len(cells))
		for j, cell := range cells {
			m[i][j] = decodePriceCell(cell)
		}
	}
	return m
}

func decodePriceCell(raw json.RawMessage) PriceCell {
	switch k := rawKind(raw); {
	case k == 'n':
		return Null
	case k == '-' || (k >= '0' && k <= '9'):
		// ParseFloat returns ±Inf together with ErrRange on overflow, which
		// is the value a JSON.parse would have produced.
		v, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return PriceCell{Kind: CellOther}
		}
		return Amount(v)
	default:
		return PriceCell{Kind: CellOther}
	}
}

func decodeCodes(raw json.RawMessage) CodeMatrix {
	rows, ok := decodeArray(raw)
	if !ok {
		return nil
	}
	m := make(CodeMatrix, len(rows))
	for i, row := range rows {
		if _, ok := decodeArray(row); !ok {
			continue
		}
		m[i] = decodeStrings(row)
	}
	return m
}

func decodeUpdates(raw json.RawMessage) []FareUpdate {
	items, ok := decodeArray(raw)
	if !ok {
		return nil
	}
	out := make([]FareUpdate, 0, len(items))
	for _, item := range items {
		if rawKind(item) != '{' {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		out = append(out, FareUpdate{
			Departure:  decodeString(fields["partenza"]),
			Arrival:    decodeString(fields["arrivo"]),
			TicketCode: decodeString(fields["codice_biglietto"]),
		})
	}
	return out
}
