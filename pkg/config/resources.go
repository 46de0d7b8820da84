package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cms-console/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed resources.yml
var defaultResources []byte

// LoadResources reads the resource registry from path. YAML and TOML are
// both accepted, chosen by extension. An empty path loads the embedded
// registry matching the stock backend.
func LoadResources(path string) (*models.ConsoleConfig, error) {
	if path == "" {
		return ParseResources(defaultResources, "yaml")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources file: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	return ParseResources(content, format)
}

func ParseResources(content []byte, format string) (*models.ConsoleConfig, error) {
	var cfg models.ConsoleConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("parse resources: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("parse resources: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	seen := make(map[string]bool, len(cfg.Resources))
	for _, r := range cfg.Resources {
		if r.Name == "" {
			return nil, fmt.Errorf("resource without name")
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate resource %q", r.Name)
		}
		seen[r.Name] = true
	}
	return &cfg, nil
}
