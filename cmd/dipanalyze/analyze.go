package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"smartdip/internal/backend"
	"smartdip/internal/colormap"
	"smartdip/internal/compare"
	"smartdip/internal/config"
	"smartdip/internal/histogram"
	"smartdip/internal/inspector"
	"smartdip/internal/ops"
	"smartdip/internal/raster"
	"smartdip/internal/roizoom"
	"smartdip/internal/surface"
	"smartdip/pkg/geometry"
)

type options struct {
	imagePath     string
	processedPath string
	outDir        string
	configPath    string
	histMode      string
	colormap      string
	roi           string
	zoom          int
	inspect       string
	ops           []string
	compareMode   string
	slider        float64
	blend         float64
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	img, err := raster.Load(opts.imagePath)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %s: %dx%d pixels\n", opts.imagePath, img.Width(), img.Height())

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(opts.imagePath), filepath.Ext(opts.imagePath))
	out := func(suffix string) string {
		return filepath.Join(opts.outDir, base+"_"+suffix+".png")
	}

	if err := analyze(img, cfg.Analysis, opts, out); err != nil {
		return err
	}

	if opts.inspect != "" {
		if err := printReadout(img, opts.inspect); err != nil {
			return err
		}
	}

	after, err := processed(ctx, cfg, opts)
	if err != nil {
		return err
	}
	if after == nil {
		return nil
	}
	return compareAll(ctx, compare.Pair{Before: img, After: after}, cfg.Compare, opts, out)
}

// analyze writes the histogram, pseudo-color, surface and ROI renders.
func analyze(img *raster.Image, cfg config.Analysis, opts options, out func(string) string) error {
	mode, err := histogram.ParseMode(firstNonEmpty(opts.histMode, cfg.HistogramMode))
	if err != nil {
		return err
	}
	data := histogram.Compute(img)
	if err := save(out("histogram_"+string(mode)), histogram.Render(data, mode)); err != nil {
		return err
	}
	fmt.Printf("\nHistogram statistics (%d pixels):\n", data.Total)
	for _, c := range []histogram.Channel{histogram.Red, histogram.Green, histogram.Blue, histogram.Luminance} {
		fmt.Printf("  %-9s %s\n", c, data.Stats(c))
	}

	name, err := colormap.Parse(firstNonEmpty(opts.colormap, cfg.Colormap))
	if err != nil {
		return err
	}
	if err := save(out("pseudo_"+string(name)), colormap.PseudoColor(img, name)); err != nil {
		return err
	}

	grid := surface.Sample(img, cfg.SurfaceColumns, cfg.SurfaceRows)
	if err := save(out("surface"), surface.RenderGrid(grid)); err != nil {
		return err
	}

	roi, err := parseROI(opts.roi, img)
	if err != nil {
		return err
	}
	zoom := opts.zoom
	if zoom == 0 {
		zoom = cfg.ZoomFactor
	}
	res, err := roizoom.Render(img, roi, zoom)
	if err != nil {
		return err
	}
	return save(out("roi"), res.Composite)
}

// parseROI parses "x,y,w,h", defaulting to the centred half of the image.
func parseROI(s string, img *raster.Image) (geometry.RectInt, error) {
	if s == "" {
		w, h := max(1, img.Width()/2), max(1, img.Height()/2)
		return geometry.NewRectInt((img.Width()-w)/2, (img.Height()-h)/2, w, h), nil
	}
	return geometry.ParseRectInt(s)
}

// printReadout prints the inspector readouts for pixel "x,y".
func printReadout(img *raster.Image, at string) error {
	var x, y int
	if _, err := fmt.Sscanf(at, "%d,%d", &x, &y); err != nil {
		return fmt.Errorf("parse pixel %q: %w", at, err)
	}
	// A display the size of the image maps pointer positions 1:1.
	displayed := geometry.NewSize(float64(img.Width()), float64(img.Height()))
	r, ok := inspector.New(img).Move(geometry.NewPoint2D(float64(x)+0.5, float64(y)+0.5), displayed)
	if !ok {
		return fmt.Errorf("pixel %d,%d: %w", x, y, raster.ErrOutOfBounds)
	}
	fmt.Printf("\nPixel %s\n  %s\n  %s\n  Luminance: %s\n", r.PositionText(), r.RGBText(), r.HSVText(), r.LuminanceText())
	return nil
}

// processed returns the image to compare against: the PROCESSED argument,
// or the last result of running --op on the backend. nil when neither is
// given.
func processed(ctx context.Context, cfg *config.Config, opts options) (*raster.Image, error) {
	if opts.processedPath != "" {
		if len(opts.ops) > 0 {
			return nil, errors.New("give either a processed image or --op, not both")
		}
		return raster.Load(opts.processedPath)
	}
	if len(opts.ops) == 0 {
		return nil, nil
	}

	queue := ops.NewQueue()
	for _, spec := range opts.ops {
		name, params, err := parseOpSpec(spec)
		if err != nil {
			return nil, err
		}
		if _, err := queue.Add(name, params); err != nil {
			return nil, err
		}
	}

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, backend.WithDecodeWorkers(cfg.Backend.DecodeWorkers))
	f, err := os.Open(opts.imagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fmt.Printf("\nUploading to %s...\n", cfg.Backend.URL)
	up, err := client.Upload(ctx, opts.imagePath, f)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Processing %d operation(s)...\n", queue.Len())
	results, err := client.Process(ctx, up.Filename, queue.Requests())
	if err != nil {
		return nil, err
	}
	for i, r := range results {
		fmt.Printf("  %d. %-24s %dx%d  %s\n", i+1, r.Operation, r.Width, r.Height, r.Description)
	}
	if len(results) == 0 {
		return nil, errors.New("backend returned no results")
	}
	return results[len(results)-1].Image, nil
}

// parseOpSpec parses "name" or "name:key=value,key=value". Values are left
// as strings for the schema to coerce.
func parseOpSpec(spec string) (string, map[string]any, error) {
	name, rest, hasParams := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("empty operation in %q", spec)
	}
	params := make(map[string]any)
	if !hasParams {
		return name, params, nil
	}
	for _, kv := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return "", nil, fmt.Errorf("%w: expected key=value, got %q", ops.ErrInvalidParam, kv)
		}
		params[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return name, params, nil
}

// compareAll renders the requested comparison modes.
func compareAll(ctx context.Context, pair compare.Pair, cfg config.Compare, opts options, out func(string) string) error {
	modes := compare.Modes()
	if opts.compareMode != "all" {
		m, err := compare.ParseMode(opts.compareMode)
		if err != nil {
			return err
		}
		modes = []compare.Mode{m}
	}

	fmt.Printf("\nComparing (%s difference backend):\n", compare.Backend())
	for _, m := range modes {
		var img image.Image
		switch m {
		case compare.ModeSlider:
			img = compare.RenderSlider(pair, opts.slider)
		case compare.ModeSideBySide:
			img = compare.RenderSideBySide(pair)
		case compare.ModeBlend:
			img = compare.RenderBlend(pair, opts.blend)
		case compare.ModeDifference:
			diff, err := compare.DiffPipeline{
				Before:  compare.Decoded(pair.Before),
				After:   compare.Decoded(pair.After),
				Timeout: cfg.DecodeTimeout,
			}.Run(ctx)
			if err != nil {
				return err
			}
			img = diff
		}
		if err := save(out("compare_"+m.String()), img); err != nil {
			return err
		}
	}
	return nil
}

func save(path string, img image.Image) error {
	if err := raster.SavePNG(path, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
