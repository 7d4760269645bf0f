package main

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"github.com/jo-hoe/goresize/internal/core"
	"github.com/jo-hoe/goresize/internal/frontend"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	source := pflag.StringP("source", "s", "", "image file to pre-fill")
	configPath := pflag.String("config", "", "path to a YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	pflag.Parse()
	if *source == "" && pflag.NArg() > 0 {
		*source = pflag.Arg(0)
	}
	if *configPath == "" {
		*configPath = core.ConfigPath()
	}

	config, err := core.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := core.NewLogger(config.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	coreService, err := core.NewCoreService(config, logger)
	if err != nil {
		logger.Fatal("Failed to create core service", zap.Error(err))
	}

	go func() {
		window := frontend.NewWindow(coreService, logger, *source)
		if err := window.Run(new(app.Window)); err != nil {
			logger.Error("window closed with error", zap.Error(err))
			_ = logger.Sync()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		_ = logger.Sync()
		os.Exit(0)
	}()
	app.Main()
}
