package quizlog

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    user_id TEXT NOT NULL,
    level TEXT NOT NULL,
    message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_user_id ON logs(user_id);
`

// SQLiteSink stores activity entries in a local embedded database, the
// alternative log backend to plain files.
type SQLiteSink struct {
	db *sql.DB
	mu sync.Mutex // serializes appends; modernc sqlite dislikes write races
}

var _ Sink = (*SQLiteSink)(nil)
var _ Reader = (*SQLiteSink)(nil)

// NewSQLiteSink opens (creating if necessary) the log database at dbPath.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply log schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO logs (created_at, user_id, level, message) VALUES (?, ?, ?, ?)",
		e.Time.Format(time.RFC3339), e.UserID, string(e.Level), e.Message,
	)
	return err
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Entries returns logged entries oldest first, applying the query filters.
func (s *SQLiteSink) Entries(q Query) ([]Entry, error) {
	query := "SELECT created_at, user_id, level, message FROM logs"
	var (
		conds []string
		args  []any
	)
	if q.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.Level != "" {
		conds = append(conds, "level = ?")
		args = append(args, string(q.Level))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			createdAt string
			e         Entry
		)
		if err := rows.Scan(&createdAt, &e.UserID, (*string)(&e.Level), &e.Message); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.Time = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return entries, nil
}
