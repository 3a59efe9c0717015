package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"vigil/internal/modules/alert/domain"
	"vigil/internal/modules/alert/dto"
	alertout "vigil/internal/modules/alert/port/out"
	"vigil/internal/platform/clock"
)

type AlertService struct {
	store alertout.ManifestStore
	host  alertout.Host
	clock clock.Clock
}

func NewAlertService(store alertout.ManifestStore, host alertout.Host, clk clock.Clock) *AlertService {
	return &AlertService{store: store, host: host, clock: clk}
}

func (s *AlertService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary})
	}
	return out, nil
}

func (s *AlertService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Pulse delivers one alert to every enabled, verified provider. A
// provider that fails is reported in its result slot; the rest still
// fire.
func (s *AlertService) Pulse(ctx context.Context, message, method string) ([]domain.PulseResult, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	request := domain.PulseRequest{Message: message, Method: method, At: s.clock.Now()}
	results := make([]domain.PulseResult, 0, len(manifests))
	for _, m := range manifests {
		if !m.Enabled {
			continue
		}
		result := domain.PulseResult{Plugin: m.Name}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			result.Err = err.Error()
			results = append(results, result)
			continue
		}
		if s.host != nil {
			if err := s.host.Pulse(ctx, m, request); err != nil {
				result.Err = err.Error()
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *AlertService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate alert plugin name: %s", manifest.Name)
		}
		seen[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read alert plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
