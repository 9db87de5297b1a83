// Command dipanalyze renders the analysis and comparison views of an image
// to PNG files without the GUI.
//
// Usage:
//
//	dipanalyze [flags] IMAGE [PROCESSED]
//
// With a second image, or with --op to have the backend produce one, the
// comparison modes are rendered as well.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"smartdip/internal/config"
)

func main() {
	opts := options{}
	pflag.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	pflag.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	pflag.StringVar(&opts.histMode, "histogram", "", "histogram mode: gray, rgb or hsv (default from config)")
	pflag.StringVar(&opts.colormap, "colormap", "", "colormap: jet, hot, viridis or gray (default from config)")
	pflag.StringVar(&opts.roi, "roi", "", "region of interest as x,y,w,h (default: centre half)")
	pflag.IntVar(&opts.zoom, "zoom", 0, "ROI zoom factor (default from config)")
	pflag.StringVar(&opts.inspect, "inspect", "", "print the readout for pixel x,y")
	pflag.StringArrayVar(&opts.ops, "op", nil, "backend operation name[:param=value,...]; repeatable")
	pflag.StringVar(&opts.compareMode, "compare", "all", "comparison mode to render, or all")
	pflag.Float64Var(&opts.slider, "slider", 50, "slider divider position in percent")
	pflag.Float64Var(&opts.blend, "blend", 50, "blend opacity in percent")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dipanalyze [flags] IMAGE [PROCESSED]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() < 1 || pflag.NArg() > 2 {
		pflag.Usage()
		os.Exit(2)
	}
	opts.imagePath = pflag.Arg(0)
	if pflag.NArg() == 2 {
		opts.processedPath = pflag.Arg(1)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "dipanalyze: %v\n", err)
		os.Exit(1)
	}
}
