// Package archive keeps a copy of every assembled recommendation report in an
// S3-compatible bucket, keyed by analysis id. Archiving is best-effort; the
// request path never depends on it.
package archive

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("report not found")

// Store defines operations for persisting analysis reports.
type Store interface {
	Put(ctx context.Context, analysisID string, report []byte) error
	Get(ctx context.Context, analysisID string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}
