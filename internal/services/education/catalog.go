package education

import (
	"fmt"
	"os"

	"github.com/ternarybob/nephra/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadCatalog reads and validates the education topic catalog YAML.
func LoadCatalog(path string) (*models.EducationCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var catalog models.EducationCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	if len(catalog.Topics) == 0 {
		return nil, fmt.Errorf("catalog %s has no topics", path)
	}

	seen := make(map[string]bool)
	for i, topic := range catalog.Topics {
		if topic.ID == "" {
			return nil, fmt.Errorf("catalog topic %d has no id", i)
		}
		if seen[topic.ID] {
			return nil, fmt.Errorf("duplicate catalog topic id %q", topic.ID)
		}
		seen[topic.ID] = true

		if topic.Title == "" {
			return nil, fmt.Errorf("catalog topic %q has no title", topic.ID)
		}
		if topic.Summary == "" {
			return nil, fmt.Errorf("catalog topic %q has no summary fallback", topic.ID)
		}
	}

	return &catalog, nil
}
