package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Timer carries the countdown and alert cadence knobs. The background
// alert cap is longer because a headless process cannot rely on a
// visible prompt to get the user's attention.
type Timer struct {
	TickSeconds               int `yaml:"tick_seconds"`
	SnapshotIntervalSeconds   int `yaml:"snapshot_interval_seconds"`
	AlertIntervalSeconds      int `yaml:"alert_interval_seconds"`
	ForegroundAlertCapSeconds int `yaml:"foreground_alert_cap_seconds"`
	BackgroundAlertCapSeconds int `yaml:"background_alert_cap_seconds"`
}

type Config struct {
	BasePath     string
	StatePath    string
	LedgerPath   string
	DBPath       string
	JournalPath  string
	AlertsPath   string
	CatalogPath  string
	SettingsPath string
	Timer        Timer
}

func DefaultTimer() Timer {
	return Timer{
		TickSeconds:               1,
		SnapshotIntervalSeconds:   10,
		AlertIntervalSeconds:      1,
		ForegroundAlertCapSeconds: 10,
		BackgroundAlertCapSeconds: 30,
	}
}

func New(basePath string) (Config, error) {
	if basePath == "" {
		return Config{}, fmt.Errorf("base path is required")
	}
	stateDir := filepath.Join(basePath, ".vigil")
	cfg := Config{
		BasePath:     basePath,
		StatePath:    filepath.Join(stateDir, "state.json"),
		LedgerPath:   filepath.Join(stateDir, "ledger.json"),
		DBPath:       filepath.Join(stateDir, "history.db"),
		JournalPath:  filepath.Join(basePath, "journal"),
		AlertsPath:   filepath.Join(stateDir, "alerts", "alerts.json"),
		CatalogPath:  filepath.Join(stateDir, "achievements.yaml"),
		SettingsPath: filepath.Join(stateDir, "config.yaml"),
		Timer:        DefaultTimer(),
	}
	if err := cfg.loadSettings(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadSettings() error {
	payload, err := os.ReadFile(c.SettingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	overrides := Timer{}
	if err := yaml.Unmarshal(payload, &overrides); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if overrides.TickSeconds > 0 {
		c.Timer.TickSeconds = overrides.TickSeconds
	}
	if overrides.SnapshotIntervalSeconds > 0 {
		c.Timer.SnapshotIntervalSeconds = overrides.SnapshotIntervalSeconds
	}
	if overrides.AlertIntervalSeconds > 0 {
		c.Timer.AlertIntervalSeconds = overrides.AlertIntervalSeconds
	}
	if overrides.ForegroundAlertCapSeconds > 0 {
		c.Timer.ForegroundAlertCapSeconds = overrides.ForegroundAlertCapSeconds
	}
	if overrides.BackgroundAlertCapSeconds > 0 {
		c.Timer.BackgroundAlertCapSeconds = overrides.BackgroundAlertCapSeconds
	}
	return nil
}
