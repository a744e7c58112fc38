package store

import (
	"bytes"
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/gustycube/neoview/internal/feed"
	"github.com/gustycube/neoview/internal/feedcache"
	"github.com/gustycube/neoview/internal/logging"
	"github.com/gustycube/neoview/internal/metrics"
	"github.com/gustycube/neoview/internal/neo"
	"github.com/gustycube/neoview/internal/telemetry"
)

// Fetcher retrieves the raw feed document for a range.
type Fetcher interface {
	Fetch(ctx context.Context, rng feed.Range) ([]byte, error)
}

// Loader runs the fetch, decode, normalize and publish sequence. Loads are
// serialized; concurrent readers keep seeing the previous snapshot until a
// load succeeds.
type Loader struct {
	store   *Store
	fetcher Fetcher
	cache   feedcache.Cache
	rng     feed.Range
	source  string
	log     *logging.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewLoader wires a loader. cache may be nil.
func NewLoader(s *Store, f Fetcher, cache feedcache.Cache, rng feed.Range, source string, log *logging.Logger) *Loader {
	return &Loader{
		store:   s,
		fetcher: f,
		cache:   cache,
		rng:     rng,
		source:  source,
		log:     log,
		now:     time.Now,
	}
}

// Load publishes a dataset built from the cached payload for the range, or
// from a fresh fetch on a miss.
func (l *Loader) Load(ctx context.Context) (*neo.Dataset, error) {
	return l.load(ctx, true)
}

// Reload always fetches from the source and refreshes the cache.
func (l *Loader) Reload(ctx context.Context) (*neo.Dataset, error) {
	return l.load(ctx, false)
}

func (l *Loader) load(ctx context.Context, useCache bool) (ds *neo.Dataset, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, span := telemetry.Start(ctx, "store.Load",
		attribute.String("neo.range", l.rng.Key()),
		attribute.Bool("neo.use_cache", useCache),
	)
	defer func() { telemetry.End(span, err) }()

	if useCache && l.cache != nil {
		if body, ok := l.cache.Get(ctx, l.rng.Key()); ok {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			ds, err = l.build(body)
			if err == nil {
				l.publish(ds, "cache")
				return ds, nil
			}
			l.log.Warnw("discarding unreadable cached payload", "range", l.rng.Key(), "err", err)
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		}
	}

	body, err := l.fetcher.Fetch(ctx, l.rng)
	if err != nil {
		metrics.IngestionsTotal.WithLabelValues("error").Inc()
		l.log.Errorw("feed fetch failed", "range", l.rng.Key(), "err", err)
		return nil, err
	}
	ds, err = l.build(body)
	if err != nil {
		metrics.IngestionsTotal.WithLabelValues("error").Inc()
		l.log.Errorw("feed payload rejected", "range", l.rng.Key(), "err", err)
		return nil, err
	}
	if l.cache != nil {
		l.cache.Put(ctx, l.rng.Key(), body)
	}
	l.publish(ds, "source")
	return ds, nil
}

func (l *Loader) build(body []byte) (*neo.Dataset, error) {
	p, err := neo.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return neo.Normalize(p, l.source, l.now())
}

func (l *Loader) publish(ds *neo.Dataset, from string) {
	l.store.Replace(ds)
	metrics.IngestionsTotal.WithLabelValues("ok").Inc()
	metrics.DatasetRecords.Set(float64(ds.Counts().Total))
	metrics.DatasetHazardous.Set(float64(ds.Counts().Hazardous))
	metrics.DatasetAge.Set(0)
	l.log.Infow("dataset loaded",
		"id", ds.ID(),
		"from", from,
		"records", ds.Counts().Total,
		"hazardous", ds.Counts().Hazardous,
		"dates", len(ds.Dates()),
	)
}

// TrackAge updates the dataset age gauge every interval until ctx is done.
func (l *Loader) TrackAge(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if age := l.store.AgeSeconds(); age >= 0 {
				metrics.DatasetAge.Set(age)
			}
		}
	}
}
