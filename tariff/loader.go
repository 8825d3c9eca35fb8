package tariff

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source supplies a fare table document.
type Source interface {
	Fetch(ctx context.Context) (*Document, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*Document, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) (*Document, error) { return f(ctx) }

// ReadLocation returns the raw bytes at a local path or an http(s) URL.
func ReadLocation(ctx context.Context, location string, client *http.Client) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("tariff: empty location")
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return os.ReadFile(location)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, location)
	}
	return io.ReadAll(resp.Body)
}

// Load reads and decodes a document from a path or URL.
func Load(ctx context.Context, location string, client *http.Client) (*Document, error) {
	data, err := ReadLocation(ctx, location, client)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return doc, nil
}

// LocationSource loads a full document from a path or URL.
type LocationSource struct {
	Location string
	Client   *http.Client
}

// NewLocationSource returns a Source reading location.
func NewLocationSource(location string, client *http.Client) *LocationSource {
	return &LocationSource{Location: location, Client: client}
}

// Fetch implements Source.
func (s *LocationSource) Fetch(ctx context.Context) (*Document, error) {
	return Load(ctx, s.Location, s.Client)
}

// UpdatesSource loads only a fare update list from a path or URL.
type UpdatesSource struct {
	Location string
	Client   *http.Client
}

// NewUpdatesSource returns a Source whose documents carry only Updates.
func NewUpdatesSource(location string, client *http.Client) *UpdatesSource {
	return &UpdatesSource{Location: location, Client: client}
}

// Fetch implements Source.
func (s *UpdatesSource) Fetch(ctx context.Context) (*Document, error) {
	data, err := ReadLocation(ctx, s.Location, s.Client)
	if err != nil {
		return nil, err
	}
	updates, err := DecodeUpdates(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Location, err)
	}
	return &Document{Updates: updates}, nil
}
