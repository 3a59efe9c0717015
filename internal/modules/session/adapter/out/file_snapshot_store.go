package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"vigil/internal/modules/session/domain"
	sessionout "vigil/internal/modules/session/port/out"
)

// FileSnapshotStore keeps the controller snapshot in one JSON file.
// Saves are temp-file + rename and verified by read-back; a snapshot
// older than the one on disk is refused so a stale writer can never
// overtake a newer state. A corrupt file on load falls back to Idle
// instead of crashing.
type FileSnapshotStore struct {
	path   string
	logger *log.Logger
}

func NewFileSnapshotStore(path string, logger *log.Logger) sessionout.SnapshotStore {
	return &FileSnapshotStore{path: path, logger: logger}
}

func (s *FileSnapshotStore) Load(_ context.Context) (domain.Snapshot, bool, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		if s.logger != nil {
			s.logger.Printf("snapshot undecodable, starting idle: %v", err)
		}
		return domain.Snapshot{}, false, nil
	}
	return snapshot, true, nil
}

func (s *FileSnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if existing, ok, err := s.Load(ctx); err == nil && ok && existing.Seq >= snapshot.Seq {
		return fmt.Errorf("stale snapshot: seq %d behind %d", snapshot.Seq, existing.Seq)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	readback, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("verify snapshot: %w", err)
	}
	if !bytes.Equal(readback, payload) {
		return fmt.Errorf("verify snapshot: readback mismatch")
	}
	return nil
}
