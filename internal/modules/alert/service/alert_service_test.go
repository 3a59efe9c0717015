package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vigil/internal/modules/alert/domain"
	"vigil/internal/modules/alert/service"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memManifestStore struct{ manifests []domain.Manifest }

func (s *memManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	pulses    []domain.PulseRequest
	pulseErr  error
	lifecycle error
}

func (h *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error {
	return h.lifecycle
}

func (h *fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{}, nil
}

func (h *fakeHost) Pulse(_ context.Context, _ domain.Manifest, request domain.PulseRequest) error {
	h.pulses = append(h.pulses, request)
	return h.pulseErr
}

func writeBinary(t *testing.T, dir, name string) (string, string) {
	t.Helper()
	path := filepath.Join(dir, name)
	payload := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	return path, hex.EncodeToString(sum[:])
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	binPath, _ := writeBinary(t, t.TempDir(), "notifier")
	store := &memManifestStore{manifests: []domain.Manifest{{
		Name:    "notifier",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  strings.Repeat("0", 64),
		Enabled: true,
	}}}

	svc := service.NewAlertService(store, nil, fixedClock{now: time.Now()})
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].ChecksumValid || !results[0].BinaryReachable {
		t.Fatalf("expected checksum mismatch on reachable binary: %+v", results[0])
	}
}

func TestDoctorReportsMissingBinary(t *testing.T) {
	t.Parallel()
	store := &memManifestStore{manifests: []domain.Manifest{{
		Name:    "ghost",
		Version: "1.0.0",
		Binary:  filepath.Join(t.TempDir(), "does-not-exist"),
		SHA256:  strings.Repeat("a", 64),
		Enabled: true,
	}}}

	svc := service.NewAlertService(store, &fakeHost{}, fixedClock{now: time.Now()})
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if results[0].BinaryReachable || results[0].Error == "" {
		t.Fatalf("expected unreachable binary report: %+v", results[0])
	}
}

func TestPulseSkipsDisabledProviders(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	enabledPath, enabledSum := writeBinary(t, dir, "enabled")
	disabledPath, disabledSum := writeBinary(t, dir, "disabled")
	store := &memManifestStore{manifests: []domain.Manifest{
		{Name: "enabled", Version: "1.0.0", Binary: enabledPath, SHA256: enabledSum, Enabled: true},
		{Name: "disabled", Version: "1.0.0", Binary: disabledPath, SHA256: disabledSum, Enabled: false},
	}}
	host := &fakeHost{}

	svc := service.NewAlertService(store, host, fixedClock{now: time.Now()})
	results, err := svc.Pulse(context.Background(), "time is up", "drawing")
	if err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if len(results) != 1 || results[0].Plugin != "enabled" || results[0].Err != "" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(host.pulses) != 1 || host.pulses[0].Method != "drawing" {
		t.Fatalf("unexpected host calls: %+v", host.pulses)
	}
}

func TestPulseReportsPerProviderFailure(t *testing.T) {
	t.Parallel()
	binPath, sum := writeBinary(t, t.TempDir(), "flaky")
	store := &memManifestStore{manifests: []domain.Manifest{{
		Name: "flaky", Version: "1.0.0", Binary: binPath, SHA256: sum, Enabled: true,
	}}}
	host := &fakeHost{pulseErr: errors.New("no sound device")}

	svc := service.NewAlertService(store, host, fixedClock{now: time.Now()})
	results, err := svc.Pulse(context.Background(), "time is up", "")
	if err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if len(results) != 1 || results[0].Err == "" {
		t.Fatalf("expected a per-provider error, got %+v", results)
	}
}

func TestListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	binPath, sum := writeBinary(t, t.TempDir(), "dup")
	manifest := domain.Manifest{Name: "dup", Version: "1.0.0", Binary: binPath, SHA256: sum, Enabled: true}
	store := &memManifestStore{manifests: []domain.Manifest{manifest, manifest}}

	svc := service.NewAlertService(store, &fakeHost{}, fixedClock{now: time.Now()})
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}
