// Command resizer resizes one image and saves it as {width}x{height}.{format}
// in the configured output directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jo-hoe/goresize/internal/convert"
	"github.com/jo-hoe/goresize/internal/core"
	"github.com/jo-hoe/goresize/internal/format"
	"github.com/jo-hoe/goresize/internal/resample"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("resizer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: resizer [flags] <image>\n\nFlags:\n%s", fs.FlagUsages())
	}

	width := fs.IntP("width", "w", defaultWidth, "target width in pixels (1-9999)")
	height := fs.IntP("height", "H", defaultHeight, "target height in pixels (1-9999)")
	formatName := fs.StringP("format", "f", format.PNG.String(), "output format: PNG, JPEG, BMP, GIF, ICO or WEBP")
	outputDir := fs.StringP("output-dir", "o", "", "output directory (default: configured directory, usually the desktop)")
	filterName := fs.String("filter", "", "resampling filter: lanczos, catmullrom, bilinear or nearest")
	configPath := fs.String("config", "", "path to a YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	logLevel := fs.String("log-level", "", "log level override (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	if *outputDir != "" {
		config.OutputDirectory = *outputDir
	}
	if *filterName != "" {
		filter, err := resample.ParseFilter(*filterName)
		if err != nil {
			fmt.Fprintf(stderr, "invalid request: %v\n", err)
			return 2
		}
		config.Filter = filter
	}
	if *logLevel != "" {
		config.Logging.Level = *logLevel
	}

	f, err := format.Parse(*formatName)
	if err != nil {
		fmt.Fprintf(stderr, "invalid request: %v\n", err)
		return 2
	}

	logger, err := core.NewLogger(config.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	coreService, err := core.NewCoreService(config, logger)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}

	var source string
	if fs.NArg() > 0 {
		source = fs.Arg(0)
	}

	dest, err := coreService.Convert(context.Background(), convert.Request{
		SourcePath: source,
		Width:      *width,
		Height:     *height,
		Format:     f,
	})
	if err != nil {
		logger.Debug("conversion failed", zap.Error(err))
		fmt.Fprintln(stderr, convert.Message(err))
		return 1
	}

	fmt.Fprintln(stdout, dest)
	return 0
}

func loadConfig(path string) (*core.ServiceConfig, error) {
	if path == "" {
		path = core.ConfigPath()
	}
	return core.LoadConfig(path)
}
