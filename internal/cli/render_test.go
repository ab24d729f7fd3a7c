package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/wavetower/pkg/compile"
	waverrors "github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "json", []string{"json"}},
		{"multiple formats", "svg,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		multi  bool
		want   string
	}{
		{"no output strips input extension", "", "timing.json", false, "timing"},
		{"no output keeps input directory", "", filepath.Join("docs", "bus.json"), false, filepath.Join("docs", "bus")},
		{"output with svg extension", "out.svg", "timing.json", false, "out"},
		{"output with json extension", "out.json", "timing.json", false, "out"},
		{"output without extension", "diagram", "timing.json", false, "diagram"},
		{"output with unknown extension kept", "out.txt", "timing.json", false, "out.txt"},
		{"multi treats output as directory", "out", filepath.Join("docs", "bus.json"), true, filepath.Join("out", "bus")},
		{"multi strips input extension", "renders", "clock.json", true, filepath.Join("renders", "clock")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := basePath(tt.output, tt.input, tt.multi)
			if got != tt.want {
				t.Errorf("basePath(%q, %q, %v) = %q, want %q", tt.output, tt.input, tt.multi, got, tt.want)
			}
		})
	}
}

func TestSamePath(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "timing.json", "timing.json", true},
		{"cleaned prefix", "./timing.json", "timing.json", true},
		{"different extension", "timing.svg", "timing.json", false},
		{"different directory", filepath.Join("a", "t.json"), filepath.Join("b", "t.json"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := samePath(tt.a, tt.b); got != tt.want {
				t.Errorf("samePath(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRenderFileWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "timing.json")
	if err := os.WriteFile(input, []byte(`{"signal":[{"name":"clk","wave":"p..."}]}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	c := New(io.Discard, LogInfo)
	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer runner.Close()

	pop := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	res, err := c.renderFile(context.Background(), runner, input, pop, &renderOpts{}, false)
	if err != nil {
		t.Fatalf("renderFile: %v", err)
	}

	want := filepath.Join(dir, "timing.svg")
	if len(res.files) != 1 || res.files[0].path != want {
		t.Fatalf("files = %+v, want one artifact at %s", res.files, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
	if len(res.files[0].hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(res.files[0].hash))
	}
	if res.rows != 1 {
		t.Errorf("rows = %d, want 1", res.rows)
	}
}

func TestRenderFileRefusesInputOverwrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "timing.json")
	src := `{"signal":[{"name":"clk","wave":"p..."}]}`
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	c := New(io.Discard, LogInfo)
	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer runner.Close()

	// A geometry artifact for timing.json would land at timing.json.
	pop := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
	_, err = c.renderFile(context.Background(), runner, input, pop, &renderOpts{}, false)
	if err == nil {
		t.Fatal("rendering json next to a .json input should refuse to overwrite it")
	}
	if !strings.Contains(err.Error(), "overwrite") {
		t.Errorf("error = %v, should mention the overwrite refusal", err)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if string(data) != src {
		t.Error("input file was modified")
	}
}

func TestRenderError(t *testing.T) {
	base := errors.New("compile failed")

	t.Run("nil result passes error through", func(t *testing.T) {
		err := renderError("timing.json", nil, base)
		if err != base {
			t.Errorf("renderError() = %v, want original error", err)
		}
	})

	t.Run("valid diagram passes error through", func(t *testing.T) {
		result := &pipeline.Result{Diagram: &compile.Diagram{}}
		err := renderError("timing.json", result, base)
		if err != base {
			t.Errorf("renderError() = %v, want original error", err)
		}
	})

	t.Run("problems add validate hint", func(t *testing.T) {
		diagram := &compile.Diagram{
			Problems: []compile.Problem{{
				Row:  0,
				Edge: -1,
				Name: "clk",
				Err:  waverrors.New(waverrors.ErrCodeInvalidWaveChar, "unknown wave character 'q'"),
			}},
		}
		result := &pipeline.Result{Diagram: diagram}

		err := renderError("timing.json", result, base)
		if err == nil {
			t.Fatal("renderError() should return an error")
		}
		if !strings.Contains(err.Error(), "wavetower validate timing.json") {
			t.Errorf("renderError() = %q, should suggest the validate command", err)
		}
		if !errors.Is(err, base) {
			t.Error("renderError() should wrap the original error")
		}
	})
}
