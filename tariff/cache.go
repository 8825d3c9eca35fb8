package tariff

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// gob drops nil pointers in slices and does not tell nil slices from empty
// ones, so the cache encodes this flattened form instead of Document.
type cachedDocument struct {
	Version   string
	UpdatedAt string
	Lines     []cachedLine
	Updates   []FareUpdate
	HasUpdate bool
}

type cachedLine struct {
	Missing   bool
	Name      string
	Stops     []string
	Prices    [][]PriceCell
	HasPrices bool
	Codes     [][]string
	HasCodes  bool
}

func toCached(doc *Document) cachedDocument {
	c := cachedDocument{
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt,
		Lines:     make([]cachedLine, len(doc.Lines)),
		Updates:   doc.Updates,
		HasUpdate: doc.Updates != nil,
	}
	for i, l := range doc.Lines {
		if l == nil {
			c.Lines[i] = cachedLine{Missing: true}
			continue
		}
		c.Lines[i] = cachedLine{
			Name:      l.Name,
			Stops:     l.Stops,
			Prices:    l.Prices,
			HasPrices: l.Prices != nil,
			Codes:     l.Codes,
			HasCodes:  l.Codes != nil,
		}
	}
	return c
}

func fromCached(c cachedDocument) *Document {
	doc := &Document{
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
		Lines:     make(FareTable, len(c.Lines)),
	}
	if c.HasUpdate {
		doc.Updates = append([]FareUpdate{}, c.Updates...)
	}
	for i, cl := range c.Lines {
		if cl.Missing {
			continue
		}
		l := &Line{Name: cl.Name, Stops: cl.Stops}
		if cl.HasPrices {
			l.Prices = append(PriceMatrix{}, cl.Prices...)
		}
		if cl.HasCodes {
			l.Codes = append(CodeMatrix{}, cl.Codes...)
		}
		doc.Lines[i] = l
	}
	return doc
}

// SerializeTable encodes a Document to bytes using gob encoding.
// Used to keep the last good fare table on disk for offline starts.
func SerializeTable(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeTableToWriter(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeTable decodes a Document previously written by SerializeTable.
func DeserializeTable(data []byte) (*Document, error) {
	return DeserializeTableFromReader(bytes.NewReader(data))
}

// SerializeTableToFile writes a Document to a file using gob encoding.
func SerializeTableToFile(doc *Document, path string) error {
	data, err := SerializeTable(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DeserializeTableFromFile reads a Document from a gob file.
//
//	doc, err := tariff.DeserializeTableFromFile("/var/cache/tariffe/table.gob")
//	if err != nil {
//	    // cache miss or corrupted, load from the source
//	}
func DeserializeTableFromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeTable(data)
}

// SerializeTableToWriter writes a Document to w using gob encoding.
func SerializeTableToWriter(doc *Document, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("failed to encode fare table: nil document")
	}
	if err := gob.NewEncoder(w).Encode(toCached(doc)); err != nil {
		return fmt.Errorf("failed to encode fare table: %w", err)
	}
	return nil
}

// DeserializeTableFromReader reads a Document from r using gob encoding.
func DeserializeTableFromReader(r io.Reader) (*Document, error) {
	var c cachedDocument
	if err := gob.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode fare table: %w", err)
	}
	return fromCached(c), nil
}
