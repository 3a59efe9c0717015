package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrPluginDisabled   = errors.New("alert plugin is disabled")
	ErrChecksumMismatch = errors.New("alert plugin checksum mismatch")
	ErrPluginTimeout    = errors.New("alert plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one out-of-process alert provider: a system
// notifier, a sound player, anything that can pulse.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("alert plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("alert plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("alert plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("alert plugin sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Metadata struct {
	Name    string
	Version string
}

// PulseRequest is one unit of feedback sent to a provider.
type PulseRequest struct {
	Message string
	Method  string
	At      time.Time
}

// PulseResult reports one provider's outcome; a failing provider never
// blocks the others.
type PulseResult struct {
	Plugin string
	Err    string
}
