package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched snapshot is served without revalidation.
const DefaultTTL = time.Hour

// CacheStatus tags how a snapshot result was obtained.
type CacheStatus string

const (
	// StatusFresh means the result came from an upstream fetch on this call.
	StatusFresh CacheStatus = "fresh"
	// StatusCached means the result came from an unexpired cached snapshot.
	StatusCached CacheStatus = "cached"
	// StatusStale means the cache had expired, the refresh failed, and an
	// older snapshot was served instead.
	StatusStale CacheStatus = "stale"
)

// Result is one answer from the fetcher. Body is the marshaled snapshot;
// cached results return the exact bytes stored at fetch time.
type Result struct {
	Body     []byte
	Snapshot *Snapshot
	Status   CacheStatus
}

type cacheEntry struct {
	body      []byte
	snapshot  *Snapshot
	fetchedAt time.Time
}

// Fetcher owns the single cached model snapshot. It refreshes from upstream
// when the snapshot is older than the TTL and falls back to the previous
// snapshot, however old, when a refresh fails. Concurrent refreshes are
// coalesced; only one upstream request is in flight at a time.
type Fetcher struct {
	client *Client
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	entry *cacheEntry

	group singleflight.Group
}

func NewFetcher(client *Client, ttl time.Duration, logger *slog.Logger) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (f *Fetcher) current() *cacheEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entry
}

func (f *Fetcher) expired(ent *cacheEntry) bool {
	return f.now().Sub(ent.fetchedAt) >= f.ttl
}

// GetModels returns the current snapshot, refreshing from upstream if the
// cached one has expired. The error is non-nil only when a refresh fails and
// no previous snapshot exists at all.
func (f *Fetcher) GetModels(ctx context.Context) (*Result, error) {
	if ent := f.current(); ent != nil && !f.expired(ent) {
		snapshotCacheHits.Inc()
		return &Result{Body: ent.body, Snapshot: ent.snapshot, Status: StatusCached}, nil
	}
	snapshotCacheMisses.Inc()

	v, err, _ := f.group.Do("snapshot", func() (interface{}, error) {
		// a coalesced caller may arrive after the refresh already landed
		if ent := f.current(); ent != nil && !f.expired(ent) {
			return &Result{Body: ent.body, Snapshot: ent.snapshot, Status: StatusCached}, nil
		}
		return f.refresh(ctx)
	})
	if err != nil {
		if ent := f.current(); ent != nil {
			snapshotStaleServed.Inc()
			f.logger.Warn("serving stale model snapshot after upstream failure",
				"err", err, "age", f.now().Sub(ent.fetchedAt))
			return &Result{Body: ent.body, Snapshot: ent.snapshot, Status: StatusStale}, nil
		}
		return nil, fmt.Errorf("no cached snapshot available: %w", err)
	}
	return v.(*Result), nil
}

func (f *Fetcher) refresh(ctx context.Context) (*Result, error) {
	start := time.Now()
	raw, err := f.client.FetchModels(ctx)
	if err != nil {
		upstreamFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	snap := BuildSnapshot(raw, f.now())
	body, err := json.Marshal(snap)
	if err != nil {
		upstreamFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	upstreamFetches.WithLabelValues("ok").Inc()
	upstreamFetchDuration.Observe(time.Since(start).Seconds())

	ent := &cacheEntry{body: body, snapshot: &snap, fetchedAt: f.now()}
	f.mu.Lock()
	f.entry = ent
	f.mu.Unlock()

	f.logger.Info("refreshed model snapshot", "models", snap.TotalCount)
	return &Result{Body: body, Snapshot: &snap, Status: StatusFresh}, nil
}
