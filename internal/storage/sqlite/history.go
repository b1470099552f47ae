package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sentimentbot/internal/domain"
)

// TimestampLayout matches the naive local isoformat() rows already present in
// existing history files, so one text ordering covers old and new rows alike.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// isoformat() drops the fraction when it is zero.
var readTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

const schema = `
CREATE TABLE IF NOT EXISTS sentiments (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	text      TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sentiments_timestamp ON sentiments(timestamp);
`

// HistoryStore is the append-only sentiment history. It keeps no open
// connection: every operation opens the database and closes it before
// returning.
type HistoryStore struct {
	path string
	loc  *time.Location
	now  func() time.Time
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path, loc: time.Local, now: time.Now}
}

func (s *HistoryStore) Path() string { return s.path }

func (s *HistoryStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Initialize creates the table if needed. It never drops or rewrites data.
func (s *HistoryStore) Initialize(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return &domain.PersistenceError{Op: "initialize", Err: err}
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return &domain.PersistenceError{Op: "initialize", Err: err}
	}
	return nil
}

// Append inserts one record and returns its generated ID. A zero timestamp is
// replaced by the store clock.
func (s *HistoryStore) Append(ctx context.Context, text string, label domain.Label, at time.Time) (int64, error) {
	if text == "" {
		return 0, &domain.PersistenceError{Op: "append", Err: errors.New("text is required")}
	}
	if strings.TrimSpace(string(label)) == "" {
		return 0, &domain.PersistenceError{Op: "append", Err: errors.New("sentiment label is required")}
	}
	if at.IsZero() {
		at = s.now()
	}

	db, err := s.open()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "append", Err: err}
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`INSERT INTO sentiments (text, sentiment, timestamp) VALUES (?, ?, ?)`,
		text, string(label), FormatTimestamp(at, s.loc),
	)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "append", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "append", Err: err}
	}
	return id, nil
}

// Recent returns up to limit records, most recent first. Equal timestamps
// come back newest insert first. An empty store yields an empty slice.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	out := []domain.HistoryRecord{}
	if limit <= 0 {
		return out, nil
	}

	db, err := s.open()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "recent", Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, text, sentiment, timestamp
		 FROM sentiments
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "recent", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.HistoryRecord
		var label, ts string
		if err := rows.Scan(&r.ID, &r.Text, &label, &ts); err != nil {
			return nil, &domain.PersistenceError{Op: "recent", Err: err}
		}
		r.Label = domain.Label(label)
		r.Timestamp, err = ParseTimestamp(ts, s.loc)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "recent", Err: fmt.Errorf("record %d: %w", r.ID, err)}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "recent", Err: err}
	}
	return out, nil
}

// Stats counts records per label at or after since.
func (s *HistoryStore) Stats(ctx context.Context, since time.Time) (domain.SentimentStats, error) {
	stats := domain.SentimentStats{Since: since}

	db, err := s.open()
	if err != nil {
		return stats, &domain.PersistenceError{Op: "stats", Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT sentiment, COUNT(*) AS cnt
		 FROM sentiments
		 WHERE timestamp >= ?
		 GROUP BY sentiment
		 ORDER BY cnt DESC, sentiment`,
		FormatTimestamp(since, s.loc),
	)
	if err != nil {
		return stats, &domain.PersistenceError{Op: "stats", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return stats, &domain.PersistenceError{Op: "stats", Err: err}
		}
		stats.Counts = append(stats.Counts, domain.LabelCount{Label: domain.Label(label), Count: count})
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, &domain.PersistenceError{Op: "stats", Err: err}
	}
	return stats, nil
}

// FormatTimestamp renders t as naive wall-clock time in loc. Sub-microsecond
// remainders round up, so a stored timestamp is never earlier than t.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if r := t.Truncate(time.Microsecond); r.Before(t) {
		t = r.Add(time.Microsecond)
	}
	return t.In(loc).Format(TimestampLayout)
}

func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range readTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
