package report

import (
	"context"
	"errors"
	"testing"

	"postpulse/internal/gateway/repository/archive"
)

type countingStore struct {
	inner *archive.MemoryStore
	gets  int
	lists int
}

func newCountingStore() *countingStore {
	return &countingStore{inner: archive.NewMemoryStore()}
}

func (s *countingStore) Put(ctx context.Context, id string, report []byte) error {
	return s.inner.Put(ctx, id, report)
}

func (s *countingStore) Get(ctx context.Context, id string) ([]byte, error) {
	s.gets++
	return s.inner.Get(ctx, id)
}

func (s *countingStore) List(ctx context.Context) ([]string, error) {
	s.lists++
	return s.inner.List(ctx)
}

func TestCachedStore_GetHitsCacheAfterPut(t *testing.T) {
	origin := newCountingStore()
	s := NewCachedStore(origin, DefaultCacheConfig())
	ctx := context.Background()

	if err := s.Put(ctx, "a1", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"x":1}` || origin.gets != 0 {
		t.Fatalf("got %q, origin gets = %d (want cache hit)", got, origin.gets)
	}

	m := s.Metrics()
	if m.ReportHits != 1 || m.OriginWrites != 1 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestCachedStore_MissFallsThroughThenCaches(t *testing.T) {
	origin := newCountingStore()
	ctx := context.Background()
	_ = origin.Put(ctx, "a2", []byte("r"))

	s := NewCachedStore(origin, DefaultCacheConfig())
	if _, err := s.Get(ctx, "a2"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := s.Get(ctx, "a2"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if origin.gets != 1 {
		t.Fatalf("origin gets = %d, want exactly one fall-through", origin.gets)
	}
}

func TestCachedStore_PutInvalidatesListing(t *testing.T) {
	origin := newCountingStore()
	s := NewCachedStore(origin, DefaultCacheConfig())
	ctx := context.Background()

	_ = s.Put(ctx, "a1", []byte("r1"))
	if _, err := s.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	_ = s.Put(ctx, "a2", []byte("r2"))
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want the listing refreshed after the write", ids)
	}
	if origin.lists != 2 {
		t.Fatalf("origin lists = %d", origin.lists)
	}
}

func TestCachedStore_NotFoundIsNotCached(t *testing.T) {
	origin := newCountingStore()
	s := NewCachedStore(origin, DefaultCacheConfig())
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, archive.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	_ = origin.Put(ctx, "missing", []byte("late"))
	if got, err := s.Get(ctx, "missing"); err != nil || string(got) != "late" {
		t.Fatalf("got %q, %v (errors must not be cached)", got, err)
	}
}
