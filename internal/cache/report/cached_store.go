// Package report wraps the archive store with an in-memory read cache.
// Reports are immutable once written, so a short TTL only matters for the
// id listing.
package report

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"postpulse/internal/gateway/repository/archive"
)

type Store = archive.Store

type CacheConfig struct {
	ReportTTL        time.Duration
	ReportMaxEntries int

	ListTTL        time.Duration
	ListMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ReportTTL:        5 * time.Minute,
		ReportMaxEntries: 1024,
		ListTTL:          30 * time.Second,
		ListMaxEntries:   64,
	}
}

type MetricsSnapshot struct {
	ReportHits     uint64
	ReportMisses   uint64
	ListHits       uint64
	ListMisses     uint64
	OriginReads    uint64
	OriginWrites   uint64
	OriginReadErr  uint64
	OriginWriteErr uint64
}

type metrics struct {
	reportHits     atomic.Uint64
	reportMisses   atomic.Uint64
	listHits       atomic.Uint64
	listMisses     atomic.Uint64
	originReads    atomic.Uint64
	originWrites   atomic.Uint64
	originReadErr  atomic.Uint64
	originWriteErr atomic.Uint64
}

const listKey = "reports"

type CachedStore struct {
	origin Store

	reportCache *expirable.LRU[string, []byte]
	listCache   *expirable.LRU[string, []string]
	metrics     metrics
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	def := DefaultCacheConfig()
	if cfg.ReportTTL <= 0 {
		cfg.ReportTTL = def.ReportTTL
	}
	if cfg.ReportMaxEntries <= 0 {
		cfg.ReportMaxEntries = def.ReportMaxEntries
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if cfg.ListMaxEntries <= 0 {
		cfg.ListMaxEntries = def.ListMaxEntries
	}

	return &CachedStore{
		origin:      origin,
		reportCache: expirable.NewLRU[string, []byte](cfg.ReportMaxEntries, nil, cfg.ReportTTL),
		listCache:   expirable.NewLRU[string, []string](cfg.ListMaxEntries, nil, cfg.ListTTL),
	}
}

func (s *CachedStore) Put(ctx context.Context, analysisID string, report []byte) error {
	s.metrics.originWrites.Add(1)
	if err := s.origin.Put(ctx, analysisID, report); err != nil {
		s.metrics.originWriteErr.Add(1)
		return err
	}
	copied := append([]byte(nil), report...)
	s.reportCache.Add(strings.TrimSpace(analysisID), copied)
	s.listCache.Remove(listKey)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, analysisID string) ([]byte, error) {
	key := strings.TrimSpace(analysisID)
	if raw, ok := s.reportCache.Get(key); ok {
		s.metrics.reportHits.Add(1)
		return append([]byte(nil), raw...), nil
	}
	s.metrics.reportMisses.Add(1)
	s.metrics.originReads.Add(1)

	raw, err := s.origin.Get(ctx, analysisID)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return nil, err
	}
	copied := append([]byte(nil), raw...)
	s.reportCache.Add(key, copied)
	return append([]byte(nil), copied...), nil
}

func (s *CachedStore) List(ctx context.Context) ([]string, error) {
	if ids, ok := s.listCache.Get(listKey); ok {
		s.metrics.listHits.Add(1)
		return append([]string(nil), ids...), nil
	}
	s.metrics.listMisses.Add(1)
	s.metrics.originReads.Add(1)

	ids, err := s.origin.List(ctx)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return nil, err
	}
	copied := append([]string(nil), ids...)
	s.listCache.Add(listKey, copied)
	return append([]string(nil), copied...), nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		ReportHits:     s.metrics.reportHits.Load(),
		ReportMisses:   s.metrics.reportMisses.Load(),
		ListHits:       s.metrics.listHits.Load(),
		ListMisses:     s.metrics.listMisses.Load(),
		OriginReads:    s.metrics.originReads.Load(),
		OriginWrites:   s.metrics.originWrites.Load(),
		OriginReadErr:  s.metrics.originReadErr.Load(),
		OriginWriteErr: s.metrics.originWriteErr.Load(),
	}
}
