package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wavetower/pkg/cache"
	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/pipeline"
)

// debounceDelay coalesces bursts of file events (editors often write a file
// several times per save) into one re-render.
const debounceDelay = 200 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (single input) or directory (several inputs)
	formatsStr string // comma-separated output formats
	noCache    bool   // disable the artifact cache entirely
	watch      bool   // keep running, re-rendering inputs as they change
	instanceID string // pin the SVG instance id for byte-reproducible output
}

// renderCommand creates the render command for producing SVG and geometry
// JSON from WaveJSON documents.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	pop := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render WaveJSON documents to SVG or geometry JSON",
		Long: `Render WaveJSON documents to SVG or geometry JSON.

Each input file runs through the full pipeline (decode, compile, layout,
render); several inputs are rendered concurrently. Rendered artifacts are
cached by content hash, so re-rendering an unchanged document is free.

With --watch the command keeps running and re-renders an input whenever it
changes on disk. Artifacts whose bytes did not change are not rewritten.

Examples:
  wavetower render timing.json                  # timing.svg next to the input
  wavetower render timing.json -f svg,json      # both formats
  wavetower render a.json b.json -o out         # batch into a directory
  wavetower render timing.json --watch          # re-render on save`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadFileConfig(".")
			if err != nil {
				return err
			}
			if cfgPath != "" {
				loggerFromContext(cmd.Context()).Debugf("Using config %s", cfgPath)
				applyFileConfig(cfg, &pop, &opts.formatsStr)
			}

			pop.Formats = parseFormats(opts.formatsStr)
			if err := pipeline.ValidateFormats(pop.Formats); err != nil {
				return err
			}
			pop.InstanceID = opts.instanceID

			return c.runRender(cmd.Context(), args, pop, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input) or directory (several inputs)")
	cmd.Flags().StringVarP(&opts.formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().IntVar(&pop.HScale, "hscale", 0, "horizontal scale override (0 follows the document)")
	cmd.Flags().BoolVar(&pop.ReserveGroupRows, "group-rows", false, "reserve a label row for untitled groups")
	cmd.Flags().BoolVar(&pop.AllowPartial, "allow-partial", false, "render documents with problems, skipping broken rows")
	cmd.Flags().BoolVar(&pop.Refresh, "refresh", false, "re-render even when a cached artifact exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "watch inputs and re-render on change")
	cmd.Flags().StringVar(&opts.instanceID, "instance-id", "", "pin the SVG instance id (reproducible output)")

	return cmd
}

// runRender renders every input once and then, with --watch, keeps
// re-rendering them as they change until the context is canceled.
func (c *CLI) runRender(ctx context.Context, inputs []string, pop pipeline.Options, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// With several inputs the output flag names a directory.
	if opts.output != "" && len(inputs) > 1 {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	written, err := c.renderBatch(ctx, runner, inputs, pop, opts)
	if err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}
	return c.watchRender(ctx, runner, inputs, pop, opts, written)
}

// renderResult is one input's rendered outputs, collected so batch results
// print in input order rather than completion order.
type renderResult struct {
	input   string
	files   []artifactFile
	rows    int
	columns int
	cached  bool
}

// artifactFile is one written artifact and the hash of its bytes, kept for
// watch mode's unchanged-output check.
type artifactFile struct {
	path string
	hash string
}

// renderBatch renders every input, concurrently when there are several.
// Documents are independent, so concurrent pipeline runs need no
// coordination. It returns the written artifact hashes by path.
func (c *CLI) renderBatch(ctx context.Context, runner *pipeline.Runner, inputs []string, pop pipeline.Options, opts *renderOpts) (map[string]string, error) {
	results := make([]renderResult, len(inputs))
	multi := len(inputs) > 1

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		i, input := i, input
		eg.Go(func() error {
			res, err := c.renderFile(egctx, runner, input, pop, opts, multi)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	written := make(map[string]string)
	for _, res := range results {
		printSuccess("Rendered %s", res.input)
		for _, f := range res.files {
			printFile(f.path)
			written[f.path] = f.hash
		}
		printStats(res.rows, res.columns, res.cached)
	}
	return written, nil
}

// renderFile runs the pipeline on one input and writes its artifacts.
func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, pop pipeline.Options, opts *renderOpts, multi bool) (renderResult, error) {
	res := renderResult{input: input}

	src, err := os.ReadFile(input)
	if err != nil {
		return res, err
	}

	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, src, pop)
	if err != nil {
		return res, renderError(input, result, err)
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	base := basePath(opts.output, input, multi)
	for _, format := range pop.Formats {
		data := result.Artifacts[format]
		path := base + "." + format
		if samePath(path, input) {
			return res, fmt.Errorf("artifact %s would overwrite the input, pass --output", path)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return res, err
		}
		res.files = append(res.files, artifactFile{path: path, hash: cache.Hash(data)})
	}

	res.rows = result.Stats.Rows
	res.columns = result.Stats.Columns
	res.cached = result.CacheInfo.RenderHit
	return res, nil
}

// samePath reports whether two paths name the same file lexically. It
// guards against a geometry artifact clobbering a .json input.
func samePath(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

// renderError points a failed render at the validate command, which reports
// every problem instead of just the first.
func renderError(input string, result *pipeline.Result, err error) error {
	if result == nil || result.Diagram == nil || result.Diagram.Valid() {
		return err
	}
	return fmt.Errorf("%w\n\nRun 'wavetower validate %s' to see every problem", err, input)
}

// basePath derives the artifact path base (everything before the format
// extension) for one input. An empty output keeps artifacts next to the
// input; with several inputs the output names a directory; otherwise it is
// used directly, stripping a known format extension if present.
func basePath(output, input string, multi bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if multi {
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		return filepath.Join(output, stem)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// watchRender blocks, re-rendering inputs as they change, until the context
// is canceled. Events are debounced, and an artifact file is rewritten only
// when its bytes actually changed.
func (c *CLI) watchRender(ctx context.Context, runner *pipeline.Runner, inputs []string, pop pipeline.Options, opts *renderOpts, written map[string]string) error {
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories rather than files: editors typically replace the
	// file on save, which would invalidate a direct file watch.
	targets := make(map[string]string, len(inputs))
	dirs := make(map[string]bool)
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		targets[abs] = input
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Watch mode"))
	printInfo("Watching %s for changes, Ctrl+C to stop",
		StyleHighlight.Render(fmt.Sprintf("%d file(s)", len(inputs))))

	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	changed := make(map[string]bool)
	multi := len(inputs) > 1

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			input, ok := targets[abs]
			if !ok {
				continue
			}
			changed[input] = true
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			for input := range changed {
				c.rerenderFile(ctx, runner, input, pop, opts, multi, written)
			}
			clear(changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Watcher error: %v", err)
		}
	}
}

// rerenderFile re-renders one changed input. Failures are reported and
// watching continues, so a broken intermediate save does not end the loop.
func (c *CLI) rerenderFile(ctx context.Context, runner *pipeline.Runner, input string, pop pipeline.Options, opts *renderOpts, multi bool, written map[string]string) {
	src, err := os.ReadFile(input)
	if err != nil {
		printError("%s: %v", input, err)
		return
	}

	result, err := runner.Execute(ctx, src, pop)
	if err != nil {
		printError("%s: %s", input, errors.UserMessage(err))
		return
	}

	base := basePath(opts.output, input, multi)
	var wrote []string
	for _, format := range pop.Formats {
		data := result.Artifacts[format]
		path := base + "." + format
		if samePath(path, input) {
			printError("artifact %s would overwrite the input, pass --output", path)
			return
		}
		hash := cache.Hash(data)
		if written[path] == hash {
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			printError("%s: %v", path, err)
			return
		}
		written[path] = hash
		wrote = append(wrote, path)
	}

	if len(wrote) == 0 {
		printDetail("%s: output unchanged", input)
		return
	}
	printSuccess("Re-rendered %s", input)
	for _, path := range wrote {
		printFile(path)
	}
}
