package out

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vigil/internal/modules/achievement/domain"
)

type catalogFile struct {
	Categories []domain.CategorySpec `yaml:"categories"`
}

// LoadCatalog reads the achievement configuration, falling back to the
// built-in catalog when no file exists. The file replaces the catalog
// wholesale; it does not merge.
func LoadCatalog(path string) (domain.Catalog, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultCatalog(), nil
		}
		return domain.Catalog{}, fmt.Errorf("read achievement catalog: %w", err)
	}
	parsed := catalogFile{}
	if err := yaml.Unmarshal(payload, &parsed); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode achievement catalog: %w", err)
	}
	if len(parsed.Categories) == 0 {
		return domain.DefaultCatalog(), nil
	}
	catalog, err := domain.NewCatalog(parsed.Categories)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("achievement catalog: %w", err)
	}
	return catalog, nil
}
