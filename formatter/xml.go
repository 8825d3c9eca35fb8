package formatter

import (
	"strconv"
	"strings"

	"github.com/tplfvg/tariffe/pricing"
)

// BuildXML serializes a quote to XML
func (rb *responseBuilder) BuildXML(q Quote) []byte {
	var b strings.Builder
	b.WriteString("<Quote>")
	writeElement(&b, "Line", q.Line)
	writeElement(&b, "From", q.From)
	writeElement(&b, "To", q.To)
	if q.Price != nil {
		writeElement(&b, "Price", pricing.FormatAmount(*q.Price))
	}
	writeElement(&b, "Code", q.Code)
	b.WriteString("<Valid>")
	b.WriteString(strconv.FormatBool(q.Valid))
	b.WriteString("</Valid>")
	writeElement(&b, "Formatted", q.Formatted)
	b.WriteString("<Available>")
	b.WriteString(strconv.FormatBool(q.Available))
	b.WriteString("</Available>")
	writeElement(&b, "Version", q.Version)
	writeElement(&b, "Timestamp", q.Timestamp)
	b.WriteString("</Quote>")
	return []byte(b.String())
}

// writeElement skips empty values.
func writeElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscape(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
