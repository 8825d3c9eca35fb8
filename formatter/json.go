package formatter

import (
	"encoding/json"
	"fmt"
	"strings"
)

type responseBuilder struct{}

func newResponseBuilder() *responseBuilder { return &responseBuilder{} }

// NewResponseBuilder creates a new response builder for formatting quotes
func NewResponseBuilder() *responseBuilder {
	return newResponseBuilder()
}

// BuildJSON serializes a quote to JSON
func (rb *responseBuilder) BuildJSON(q Quote) []byte {
	b, _ := json.Marshal(q)
	return b
}

// BuildText renders a quote for a terminal.
func (rb *responseBuilder) BuildText(q Quote) string {
	if !q.Valid {
		return "no fare available\n"
	}
	var b strings.Builder
	if q.Line != "" {
		fmt.Fprintf(&b, "%s\n", q.Line)
		fmt.Fprintf(&b, "%s -> %s\n", q.From, q.To)
	}
	fmt.Fprintf(&b, "price: %s\n", q.Formatted)
	if q.Code != "" {
		fmt.Fprintf(&b, "ticket: %s\n", q.Code)
	}
	return b.String()
}
