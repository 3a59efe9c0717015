package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"vigil/internal/modules/achievement/domain"
	achievementout "vigil/internal/modules/achievement/port/out"
)

// FileLedgerStore persists the ledger as one JSON document. Writes go
// through a temp file and rename, then are verified by reading the
// result back; a failed verification is reported to the caller, who
// treats it as non-fatal. An undecodable ledger on load is discarded
// in favour of an empty one rather than crash-looping.
type FileLedgerStore struct {
	path   string
	logger *log.Logger
}

func NewFileLedgerStore(path string, logger *log.Logger) achievementout.LedgerStore {
	return &FileLedgerStore{path: path, logger: logger}
}

func (s *FileLedgerStore) Load(_ context.Context) (domain.Ledger, bool, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Ledger{}, false, nil
		}
		return domain.Ledger{}, false, fmt.Errorf("read ledger: %w", err)
	}
	ledger := domain.Ledger{}
	if err := json.Unmarshal(payload, &ledger); err != nil {
		if s.logger != nil {
			s.logger.Printf("ledger undecodable, starting empty: %v", err)
		}
		return domain.Ledger{}, false, nil
	}
	return ledger, true, nil
}

func (s *FileLedgerStore) Save(_ context.Context, ledger domain.Ledger) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	payload, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return s.verify(ledger)
}

func (s *FileLedgerStore) verify(want domain.Ledger) error {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("verify ledger: %w", err)
	}
	got := domain.Ledger{}
	if err := json.Unmarshal(payload, &got); err != nil {
		return fmt.Errorf("verify ledger: %w", err)
	}
	// Compare canonical encodings; unmarshalled time values never
	// carry monotonic readings, the in-memory ones do.
	wantRaw, err := json.Marshal(want)
	if err != nil {
		return fmt.Errorf("verify ledger: %w", err)
	}
	gotRaw, err := json.Marshal(got)
	if err != nil {
		return fmt.Errorf("verify ledger: %w", err)
	}
	if !bytes.Equal(wantRaw, gotRaw) {
		return fmt.Errorf("verify ledger: readback mismatch")
	}
	return nil
}
