package history

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Store{db: db}, mock
}

func TestOutcomesDB_SkipsUnreadableRowsAndKeepsTheRest(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS post_outcomes").
		WillReturnResult(sqlmock.NewResult(0, 0))

	postedAt := time.Date(2026, time.March, 6, 19, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"product", "category", "posted_at", "likes", "comments", "saves", "reach", "region", "festival",
	}).
		AddRow("Jhumkas", "Jewelry", "not-a-timestamp", 10, 2, 1, 400, "Gujarat", "").
		AddRow("Jhumkas", "Jewelry", postedAt, 80, 14, 9, 2100, "Rajasthan", "Holi")
	mock.ExpectQuery("FROM post_outcomes").
		WithArgs("Jhumkas", "Jewelry").
		WillReturnRows(rows)

	out, err := s.outcomesDB(context.Background(), "Jhumkas", "Jewelry")
	if err != nil {
		t.Fatalf("outcomesDB: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d records, want the one readable row", len(out))
	}
	if out[0].Region != "Rajasthan" || !out[0].PostedAt.Equal(postedAt) {
		t.Fatalf("kept the wrong row: %+v", out[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOutcomesDB_PropagatesQueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS post_outcomes").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM post_outcomes").
		WithArgs("Jhumkas", "Jewelry").
		WillReturnError(context.DeadlineExceeded)

	if _, err := s.outcomesDB(context.Background(), "Jhumkas", "Jewelry"); err == nil {
		t.Fatal("expected the query error to surface")
	}
}
