package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vigil/internal/modules/session/domain"
	sessionout "vigil/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryStore projects finished sessions into a queryable read
// model. The journal stays canonical; this table can be rebuilt.
type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (sessionout.HistoryProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  state TEXT NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  planned_seconds INTEGER NOT NULL,
  original_seconds INTEGER NOT NULL,
  credited INTEGER NOT NULL,
  credited_minutes INTEGER NOT NULL,
  method TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Upsert(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (id, category, state, started_at, ended_at, planned_seconds, original_seconds, credited, credited_minutes, method)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  category=excluded.category,
  state=excluded.state,
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  planned_seconds=excluded.planned_seconds,
  original_seconds=excluded.original_seconds,
  credited=excluded.credited,
  credited_minutes=excluded.credited_minutes,
  method=excluded.method;
`
	credited := 0
	if session.Credited {
		credited = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		session.ID,
		session.Category,
		string(session.State),
		session.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		session.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
		session.PlannedSeconds,
		session.OriginalSeconds,
		credited,
		session.CreditedMinutes,
		string(session.Method),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) List(ctx context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT id, category, state, started_at, ended_at, planned_seconds, original_seconds, credited, credited_minutes, method
FROM sessions ORDER BY started_at DESC LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		var session domain.Session
		var startedAt, endedAt, state, method string
		var credited int
		if err := rows.Scan(&session.ID, &session.Category, &state, &startedAt, &endedAt,
			&session.PlannedSeconds, &session.OriginalSeconds, &credited, &session.CreditedMinutes, &method); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.State = domain.State(state)
		session.Method = domain.VerificationMethod(method)
		session.Credited = credited == 1
		session.StartedAt, _ = parseTime(startedAt)
		session.EndedAt, _ = parseTime(endedAt)
		out = append(out, session)
	}
	return out, rows.Err()
}

func parseTime(value string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05Z07:00", value)
}
