package history

import (
	"context"
	"log"
	"strings"

	"postpulse/internal/analyzer"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS post_outcomes (
  id SERIAL PRIMARY KEY,
  product TEXT NOT NULL,
  category TEXT NOT NULL,
  posted_at TIMESTAMP WITH TIME ZONE,
  likes INTEGER NOT NULL DEFAULT 0,
  comments INTEGER NOT NULL DEFAULT 0,
  saves INTEGER NOT NULL DEFAULT 0,
  reach INTEGER NOT NULL DEFAULT 0,
  region TEXT NOT NULL DEFAULT '',
  festival TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_post_outcomes_product_category
  ON post_outcomes (lower(product), lower(category));
`)
	})
	return s.schemaErr
}

func (s *Store) outcomesDB(ctx context.Context, product, category string) ([]analyzer.OutcomeRecord, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT product, category, posted_at, likes, comments, saves, reach, region, festival
FROM post_outcomes
WHERE lower(product) = lower($1) AND lower(category) = lower($2)
ORDER BY posted_at DESC NULLS LAST
LIMIT 200`, strings.TrimSpace(product), strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analyzer.OutcomeRecord
	for rows.Next() {
		var rec analyzer.OutcomeRecord
		if err := rows.Scan(&rec.Product, &rec.Category, &rec.PostedAt,
			&rec.Likes, &rec.Comments, &rec.Saves, &rec.Reach, &rec.Region, &rec.Festival); err != nil {
			log.Printf("history: skipping unreadable post_outcomes row for %s/%s: %v", product, category, err)
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) recordDB(ctx context.Context, rec analyzer.OutcomeRecord) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO post_outcomes (product, category, posted_at, likes, comments, saves, reach, region, festival)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		strings.TrimSpace(rec.Product), strings.TrimSpace(rec.Category), rec.PostedAt,
		rec.Likes, rec.Comments, rec.Saves, rec.Reach,
		strings.TrimSpace(rec.Region), strings.TrimSpace(rec.Festival))
	return err
}
