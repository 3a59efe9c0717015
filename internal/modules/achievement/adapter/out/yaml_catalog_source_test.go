package out_test

import (
	"os"
	"path/filepath"
	"testing"

	"vigil/internal/modules/achievement/adapter/out"
	"vigil/internal/modules/achievement/domain"
)

func TestLoadCatalogFallsBackToDefault(t *testing.T) {
	t.Parallel()
	catalog, err := out.LoadCatalog(filepath.Join(t.TempDir(), "achievements.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !catalog.Has(domain.CategoryWork) || !catalog.Has(domain.CategoryBalanceMaster) {
		t.Fatalf("expected the built-in catalog")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "achievements.yaml")
	payload := `
categories:
  - name: writing
    title: Wordsmith
    rule: sum
    thresholds: [60, 300, 900]
  - name: writing-streak
    title: Daily Pages
    rule: streak_daily
    periodic: true
    thresholds: [2, 5, 7]
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	catalog, err := out.LoadCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if catalog.Has(domain.CategoryWork) {
		t.Fatalf("file catalog must replace the default, not merge")
	}
	spec, err := catalog.Spec("writing")
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	if spec.Rule != domain.RuleSum || spec.Thresholds.MaxLevel() != 3 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestLoadCatalogRejectsInvalidSpec(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "achievements.yaml")
	payload := `
categories:
  - name: broken
    title: Broken
    rule: sum
    thresholds: [300, 100]
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := out.LoadCatalog(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
