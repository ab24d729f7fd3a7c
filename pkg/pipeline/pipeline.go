// Package pipeline provides the core rendering pipeline for wavetower.
//
// This package implements the complete decode → compile → layout → render
// pipeline used by the CLI and by library consumers. Centralizing it keeps
// behavior consistent across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Decode: parse WaveJSON text into a document tree
//  2. Compile: expand waveforms into a column-aligned diagram
//  3. Layout: convert the diagram into ordered geometry primitives
//  4. Render: serialize geometry into the requested formats (SVG, JSON)
//
// The first three stages are pure and always run, so compile problems are
// always fresh. Rendered artifacts are cached by a hash of the source plus
// the options that shaped them.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wavetower/pkg/cache"
	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// Options contains all configuration for the rendering pipeline.
// The struct supports JSON serialization for tooling that stores render
// profiles.
type Options struct {
	// Compile options
	ReserveGroupRows bool `json:"reserve_group_rows,omitempty"`
	AllowPartial     bool `json:"allow_partial,omitempty"`

	// Layout options. HScale overrides the document's own config when
	// positive; zero follows the document.
	HScale int `json:"hscale,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Palette    []string `json:"palette,omitempty"`
	InstanceID string   `json:"instance_id,omitempty"`

	// Refresh bypasses cache reads, forcing a fresh render.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the decoded WaveJSON tree.
	Document *wavejson.Document

	// Diagram is the compiled diagram, including any problems and
	// warnings collected during partial compilation.
	Diagram *compile.Diagram

	// Geometry is the laid-out primitive list.
	Geometry *geometry.Geometry

	// SourceHash is the content hash of the input, usable as a cache key
	// component and for change detection.
	SourceHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows        int
	Columns     int
	Primitives  int
	DecodeTime  time.Duration
	CompileTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	// RenderHit reports whether every requested format came from cache.
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults. This method is
// idempotent; calling it repeatedly has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.HScale < 0 {
		return fmt.Errorf("invalid hscale: %d (must be zero or positive)", o.HScale)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CompileOptions maps pipeline options onto the compiler.
func (o *Options) CompileOptions() compile.Options {
	return compile.Options{ReserveEmptyGroupRows: o.ReserveGroupRows}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:           format,
		HScale:           o.HScale,
		ReserveGroupRows: o.ReserveGroupRows,
		Palette:          o.Palette,
		InstanceID:       o.InstanceID,
	}
}
