package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wavetower/pkg/pipeline"
)

// configFileName is the per-project configuration file, searched upward
// from the working directory.
const configFileName = "wavetower.toml"

// fileConfig is the subset of render options a wavetower.toml can set.
//
// Example:
//
//	format = "svg,json"
//	hscale = 2
//	group_rows = true
//	palette = ["#ffffff", "#ffffc7", "#c7e7ff", "#c7ffc7", "#ffc7c7"]
type fileConfig struct {
	// Format is the default output format list, comma-separated like the
	// --format flag.
	Format string `toml:"format"`

	// HScale overrides the documents' horizontal scale when positive.
	HScale int `toml:"hscale"`

	// GroupRows reserves a label row for untitled groups.
	GroupRows bool `toml:"group_rows"`

	// Palette replaces the data fill palette, indexed by data character
	// (=, 2, 3, 4, 5).
	Palette []string `toml:"palette"`
}

// loadFileConfig finds and decodes the nearest wavetower.toml, searching
// from dir upward to the filesystem root. The returned path is empty when
// no file exists, which is not an error.
func loadFileConfig(dir string) (fileConfig, string, error) {
	var cfg fileConfig

	path, ok := findConfigFile(dir)
	if !ok {
		return cfg, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, path, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, path, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, path, nil
}

// findConfigFile walks from dir toward the filesystem root looking for the
// config file, so a wavetower.toml at a project root covers its subtrees.
func findConfigFile(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		path := filepath.Join(dir, configFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// applyFileConfig overlays cfg onto the pipeline options for every field
// still at its default. Flags always win because a set flag is never at its
// default value.
func applyFileConfig(cfg fileConfig, opts *pipeline.Options, formatsStr *string) {
	if formatsStr != nil && *formatsStr == "" && cfg.Format != "" {
		*formatsStr = cfg.Format
	}
	if opts.HScale == 0 && cfg.HScale > 0 {
		opts.HScale = cfg.HScale
	}
	if !opts.ReserveGroupRows && cfg.GroupRows {
		opts.ReserveGroupRows = true
	}
	if len(opts.Palette) == 0 && len(cfg.Palette) > 0 {
		opts.Palette = cfg.Palette
	}
}
