// Package history persists the business's own post outcomes and serves them
// back to the analyzer. Backed by Postgres when a DSN is configured, a JSON
// file otherwise.
package history

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"postpulse/internal/analyzer"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byKey    map[string][]analyzer.OutcomeRecord

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, []analyzer.OutcomeRecord]
}

// New returns a file-backed store at path.
func New(path string) *Store {
	return &Store{
		path:  path,
		byKey: make(map[string][]analyzer.OutcomeRecord),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []analyzer.OutcomeRecord](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// NewFromEnv prefers Postgres via HISTORY_PG_DSN and falls back to the file
// backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("HISTORY_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Outcomes returns the recorded outcomes for a product/category pair, most
// recent first. Implements analyzer.HistoryReader.
func (s *Store) Outcomes(ctx context.Context, product, category string) ([]analyzer.OutcomeRecord, error) {
	if s == nil {
		return nil, nil
	}
	key := outcomeKey(product, category)
	if key == "|" {
		return nil, nil
	}
	if s.db != nil {
		if s.cache != nil {
			if cached, ok := s.cache.Get(key); ok {
				return cached, nil
			}
		}
		records, err := s.outcomesDB(ctx, product, category)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Add(key, records)
		}
		return records, nil
	}
	return s.outcomesFile(product, category), nil
}

// Record appends one outcome and invalidates the cached read for its key.
func (s *Store) Record(ctx context.Context, rec analyzer.OutcomeRecord) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		err := s.recordDB(ctx, rec)
		if err == nil && s.cache != nil {
			s.cache.Remove(outcomeKey(rec.Product, rec.Category))
		}
		return err
	}
	return s.recordFile(rec)
}

func outcomeKey(product, category string) string {
	return strings.ToLower(strings.TrimSpace(product)) + "|" + strings.ToLower(strings.TrimSpace(category))
}
