package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vigil/internal/modules/session/domain"
	sessionout "vigil/internal/modules/session/port/out"
	"vigil/internal/platform/markdown"
	"vigil/internal/platform/slug"
)

// JournalStore writes one markdown note per finished session. The
// frontmatter carries the credit decision, so the journal doubles as
// the durable record that a session was already counted.
type JournalStore struct {
	journalPath string
}

func NewJournalStore(journalPath string) sessionout.HistoryStore {
	return &JournalStore{journalPath: journalPath}
}

func (s *JournalStore) Record(_ context.Context, session domain.Session) (string, error) {
	date := session.StartedAt
	dir := filepath.Join(s.journalPath, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(session.Category))
	path := filepath.Join(dir, name)

	meta := map[string]any{
		"schema_version":   domain.SchemaVersion,
		"id":               session.ID,
		"category":         session.Category,
		"state":            string(session.State),
		"started_at":       session.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		"ended_at":         session.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
		"planned_seconds":  session.PlannedSeconds,
		"original_seconds": session.OriginalSeconds,
		"credited":         session.Credited,
		"credited_minutes": session.CreditedMinutes,
		"method":           string(session.Method),
		"adjustments":      len(session.Adjustments),
	}
	verdict := "abandoned before credit"
	if session.Credited {
		verdict = fmt.Sprintf("%d minutes credited to %s", session.CreditedMinutes, session.Category)
	}
	body := fmt.Sprintf("# Session %s\n\n- Category: %s\n- Outcome: %s\n- Result: %s\n", session.ID, session.Category, session.State, verdict)
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}
