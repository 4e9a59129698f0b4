package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SidecarName is the per-photographer metadata file.
const SidecarName = "catalog.yaml"

// Sidecar is the parsed catalog.yaml of one photographer directory.
type Sidecar struct {
	Images map[string]ImageMeta `yaml:"images"`
}

// ImageMeta is the curated metadata for one file.
type ImageMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Year        *int   `yaml:"year"`
	Nudity      bool   `yaml:"nudity"`
	AlwaysShow  bool   `yaml:"always_show"`
}

// LoadSidecar reads dir/catalog.yaml. A missing file yields an empty
// Sidecar and no error.
func LoadSidecar(dir string) (*Sidecar, error) {
	data, err := os.ReadFile(filepath.Join(dir, SidecarName))
	if errors.Is(err, fs.ErrNotExist) {
		return &Sidecar{}, nil
	}
	if err != nil {
		return nil, err
	}

	var sc Sidecar
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Join(dir, SidecarName), err)
	}
	return &sc, nil
}

// Lookup returns the metadata for filename, or the zero value.
func (s *Sidecar) Lookup(filename string) ImageMeta {
	if s == nil {
		return ImageMeta{}
	}
	return s.Images[filename]
}
