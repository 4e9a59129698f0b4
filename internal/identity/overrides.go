package identity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mosaic-gallery/internal/logging"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// OverrideFile is the on-disk format of AUTHOR_OVERRIDES:
//
//	authors:
//	  "Eugène Atget": eugene-atget
//	  "E. J. Bellocq": ernest-j-bellocq
type OverrideFile struct {
	Authors map[string]string `yaml:"authors"`
}

// LoadOverrides reads and parses an override file.
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read author overrides: %w", err)
	}
	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse author overrides %s: %w", path, err)
	}
	return file.Authors, nil
}

// LoadOverridesInto loads path and installs it on n. On error the current
// overrides are left in place.
func LoadOverridesInto(n *Normalizer, path string) error {
	pairs, err := LoadOverrides(path)
	if err != nil {
		return err
	}
	n.SetOverrides(pairs)
	logging.Info("Loaded %d author overrides from %s", len(pairs), path)
	return nil
}

// Watch reloads the override file into n whenever it is written, created or
// renamed into place, until ctx is done. The parent directory is watched so
// editors that replace the file atomically are picked up.
func Watch(ctx context.Context, n *Normalizer, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create override watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				logging.Warn("failed to close override watcher: %v", err)
			}
		}()
		target := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := LoadOverridesInto(n, path); err != nil {
					logging.Warn("Keeping previous author overrides: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("Override watcher error: %v", err)
			}
		}
	}()

	logging.Info("Watching author overrides at %s", path)
	return nil
}
