package tariff

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tplfvg/tariffe/metrics"
)

// ErrNoSource is returned by Load when the registry has no source.
var ErrNoSource = errors.New("tariff: no source configured")

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Source supplies the fare table. Required for Load.
	Source Source
	// Updates optionally supplies the fare update list. Used only when the
	// main document carries no updates of its own.
	Updates Source
	// CachePath, when set, keeps a gob copy of the last good document and
	// is used when Source fails.
	CachePath string
	// Timeout bounds one shared fetch. Zero means no limit.
	Timeout time.Duration
}

// Registry holds the current fare table. It is safe for concurrent use.
type Registry struct {
	opts  RegistryOptions
	group singleflight.Group

	mu      sync.RWMutex
	doc     *Document
	loaded  bool
	loading atomic.Bool

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewRegistry returns an empty, not yet loaded registry.
func NewRegistry(opts RegistryOptions) *Registry {
	return &Registry{
		opts: opts,
		doc:  &Document{Lines: FareTable{}},
		subs: map[int]chan struct{}{},
	}
}

// Load returns the fare table, fetching it on first use. Concurrent callers
// share one fetch. When the fetch fails and no cache is available the table
// is left empty, the registry is marked loaded and the error is returned.
// A table that is already loaded is never replaced by an empty one.
func (r *Registry) Load(ctx context.Context) (FareTable, error) {
	r.mu.RLock()
	if r.loaded && len(r.doc.Lines) > 0 {
		lines := r.doc.Lines
		r.mu.RUnlock()
		return lines, nil
	}
	r.mu.RUnlock()
	return r.Reload(ctx)
}

// Reload fetches the fare table from the source even if one is loaded. The
// fetch is shared with concurrent callers, so it does not stop when ctx is
// cancelled; it only inherits ctx values.
func (r *Registry) Reload(ctx context.Context) (FareTable, error) {
	v, err, _ := r.group.Do("load", func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if r.opts.Timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, r.opts.Timeout)
			defer cancel()
		}
		return r.fetch(fetchCtx)
	})
	lines, _ := v.(FareTable)
	return lines, err
}

func (r *Registry) fetch(ctx context.Context) (FareTable, error) {
	r.loading.Store(true)
	defer r.loading.Store(false)

	if r.opts.Source == nil {
		metrics.TableLoadCount.WithLabelValues("error").Inc()
		return r.keepCurrent(), ErrNoSource
	}

	doc, err := r.opts.Source.Fetch(ctx)
	if err != nil {
		log.Printf("fare table load failed: %v", err)
		cached, cacheErr := r.readCache()
		if cacheErr != nil {
			metrics.TableLoadCount.WithLabelValues("error").Inc()
			return r.keepCurrent(), err
		}
		log.Printf("warn: using cached fare table %s", r.opts.CachePath)
		metrics.TableLoadCount.WithLabelValues("cache").Inc()
		r.install(cached)
		return cached.Lines, nil
	}
	if doc.Lines == nil {
		doc.Lines = FareTable{}
	}

	if doc.Updates == nil && r.opts.Updates != nil {
		if upd, err := r.opts.Updates.Fetch(ctx); err != nil {
			log.Printf("warn: fare updates unavailable: %v", err)
		} else {
			doc.Updates = upd.Updates
		}
	}

	r.writeCache(doc)
	metrics.TableLoadCount.WithLabelValues("ok").Inc()
	log.Printf("fare table loaded: %d lines, version %q", len(doc.Lines), doc.Version)
	r.install(doc)
	return doc.Lines, nil
}

// keepCurrent returns the loaded table after a failed fetch. With nothing
// loaded yet it installs an empty table so the registry counts as loaded.
func (r *Registry) keepCurrent() FareTable {
	r.mu.RLock()
	lines := r.doc.Lines
	r.mu.RUnlock()
	if len(lines) > 0 {
		log.Printf("warn: keeping fare table with %d lines", len(lines))
		return lines
	}
	r.install(&Document{Lines: FareTable{}})
	return FareTable{}
}

func (r *Registry) install(doc *Document) {
	r.mu.Lock()
	r.doc = doc
	r.loaded = true
	r.mu.Unlock()
	metrics.TableLines.Set(float64(len(doc.Lines)))
	r.notify()
}

func (r *Registry) readCache() (*Document, error) {
	if r.opts.CachePath == "" {
		return nil, errors.New("tariff: no cache configured")
	}
	return DeserializeTableFromFile(r.opts.CachePath)
}

func (r *Registry) writeCache(doc *Document) {
	if r.opts.CachePath == "" {
		return
	}
	if err := SerializeTableToFile(doc, r.opts.CachePath); err != nil {
		log.Printf("warn: fare table cache not written: %v", err)
	}
}

// Data returns the current fare table. It is empty before the first load.
func (r *Registry) Data() FareTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Lines
}

// Updates returns the fare update list, nil when none was supplied.
func (r *Registry) Updates() []FareUpdate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Updates
}

// Snapshot returns the table and the update list of the same document.
func (r *Registry) Snapshot() (FareTable, []FareUpdate) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Lines, r.doc.Updates
}

// Version returns the loaded document version.
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Version
}

// IsLoaded reports whether a load has completed, successfully or not.
func (r *Registry) IsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// IsLoading reports whether a fetch is in flight.
func (r *Registry) IsLoading() bool {
	return r.loading.Load()
}

// Line returns the line at index i.
func (r *Registry) Line(i int) (*Line, bool) {
	return r.Data().Line(i)
}

// FindLineByName returns the first line named name.
func (r *Registry) FindLineByName(name string) (*Line, bool) {
	l, _, ok := r.Data().FindByName(name)
	return l, ok
}

// Reset drops the loaded table.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.doc = &Document{Lines: FareTable{}}
	r.loaded = false
	r.mu.Unlock()
}

// CheckUpdate compares the loaded version with the one published by remote.
func (r *Registry) CheckUpdate(ctx context.Context, remote Source) (UpdateStatus, error) {
	doc, err := remote.Fetch(ctx)
	if err != nil {
		return UpdateStatus{}, err
	}
	return NewUpdateStatus(r.Version(), doc.Version), nil
}

// Subscribe returns a channel that receives a value after every load. The
// channel is buffered; notifications coalesce while the reader is busy.
// Call cancel to unsubscribe.
func (r *Registry) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	r.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subs, id)
			r.subMu.Unlock()
		})
	}
}

func (r *Registry) notify() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
