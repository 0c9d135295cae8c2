package operators

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilterTemplate is a named, file-defined set of static filter fields.
// QdrantFilter merges a template's Fields into the filter it synthesizes
// whenever a request's collection matches the template's CollectionSlug,
// letting an operator pin per-collection filter defaults (visibility,
// tenant scoping) without a code change.
type FilterTemplate struct {
	Name           string                 `yaml:"name"`
	CollectionSlug string                 `yaml:"collection_slug"`
	Fields         map[string]interface{} `yaml:"fields"`
}

// LoadFilterTemplates reads every *.yaml/*.yml file directly under dir and
// returns the templates keyed by CollectionSlug. A directory that doesn't
// exist is not an error - it means no templates are configured for this
// deployment.
func LoadFilterTemplates(dir string) (map[string]FilterTemplate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]FilterTemplate{}, nil
		}
		return nil, fmt.Errorf("filter templates: %w", err)
	}

	templates := make(map[string]FilterTemplate, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("filter templates: reading %s: %w", name, err)
		}

		var tpl FilterTemplate
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return nil, fmt.Errorf("filter templates: parsing %s: %w", name, err)
		}
		if tpl.CollectionSlug == "" {
			continue
		}
		templates[tpl.CollectionSlug] = tpl
	}
	return templates, nil
}
