package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"postpulse/internal/analyzer"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []analyzer.OutcomeRecord
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			key := outcomeKey(row.Product, row.Category)
			if key == "|" {
				continue
			}
			s.byKey[key] = append(s.byKey[key], row)
		}
	})
}

func (s *Store) saveFile() {
	s.mu.RLock()
	var rows []analyzer.OutcomeRecord
	for _, recs := range s.byKey {
		rows = append(rows, recs...)
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) outcomesFile(product, category string) []analyzer.OutcomeRecord {
	s.ensureLoadedFile()
	s.mu.RLock()
	recs := s.byKey[outcomeKey(product, category)]
	out := make([]analyzer.OutcomeRecord, len(recs))
	copy(out, recs)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out
}

func (s *Store) recordFile(rec analyzer.OutcomeRecord) error {
	s.ensureLoadedFile()
	key := outcomeKey(rec.Product, rec.Category)
	if key == "|" {
		return nil
	}
	s.mu.Lock()
	s.byKey[key] = append(s.byKey[key], rec)
	s.mu.Unlock()
	s.saveFile()
	return nil
}
