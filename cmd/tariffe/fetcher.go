package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tplfvg/tariffe/tariff"
)

// fetcher builds fare table sources for the CLI. Locations may be local
// paths, http(s) URLs or, for the main table, a postgres:// DSN.
type fetcher struct {
	httpClient *http.Client
}

// newFetcher creates a fetcher whose HTTP requests time out after timeout.
func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// fetch reads raw bytes from a URL or file path.
// Returns nil if location is empty (allows optional inputs).
func (f *fetcher) fetch(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, nil
	}
	return tariff.ReadLocation(ctx, location, f.httpClient)
}

func isPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// source returns the Source for location. The returned close func releases
// any database pool and is never nil.
func (f *fetcher) source(ctx context.Context, location string) (tariff.Source, func(), error) {
	if isPostgres(location) {
		pool, err := tariff.NewPGPool(ctx, location)
		if err != nil {
			return nil, func() {}, err
		}
		return tariff.NewPGStore(pool), pool.Close, nil
	}
	return tariff.NewLocationSource(location, f.httpClient), func() {}, nil
}

// updates returns the optional fare update Source, or nil.
func (f *fetcher) updates(location string) tariff.Source {
	if location == "" {
		return nil
	}
	return tariff.NewUpdatesSource(location, f.httpClient)
}
