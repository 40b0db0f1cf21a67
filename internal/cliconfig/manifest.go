package cliconfig

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Query is one named entry in a manifest file.
type Query struct {
	Name       string `yaml:"name"`
	Path       string `yaml:"path"`
	ResultType string `yaml:"resultType,omitempty"`
	Flatten    bool   `yaml:"flatten,omitempty"`
}

// ParseManifest decodes a manifest of named queries from r.
func ParseManifest(r io.Reader) ([]Query, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var queries []Query
	if err := yaml.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	for i, q := range queries {
		if q.Path == "" {
			return nil, fmt.Errorf("manifest entry %d: path is required", i)
		}
		if q.Name == "" {
			queries[i].Name = q.Path
		}
	}

	return queries, nil
}
