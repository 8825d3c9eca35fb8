// Package formatter builds fare quote responses and serializes them.
//
// This package is organized into:
// - wrapper.go: Quote building (calculator result, stop names, availability)
// - json.go: JSON and plain text serialization
// - xml.go: XML serialization with proper escaping
package formatter
