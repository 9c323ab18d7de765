// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes every campaign to registry.yaml next to the database
// and returns the file written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	campaigns, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(campaigns)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(filepath.Dir(s.path), "registry.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every campaign to registry.json next to the database
// and returns the file written.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	campaigns, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := json.MarshalIndent(campaigns, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(filepath.Dir(s.path), "registry.json")
	return path, os.WriteFile(path, data, 0o644)
}
