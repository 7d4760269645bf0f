package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/jo-hoe/goresize/internal/codec"
	"github.com/jo-hoe/goresize/internal/convert"
	"github.com/jo-hoe/goresize/internal/format"
	"go.uber.org/zap"
)

// CoreService is shared by every front end. It runs at most one conversion
// at a time; concurrent callers wait for the running one to finish.
type CoreService struct {
	config    *ServiceConfig
	converter *convert.Converter
	logger    *zap.Logger

	mu sync.Mutex
}

func NewCoreService(config *ServiceConfig, logger *zap.Logger) (*CoreService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	converter, err := convert.NewConverter(convert.Options{
		OutputDirectory: config.OutputDirectory,
		Formats:         config.Formats,
		Filter:          config.Filter,
		Decoder: codec.Decoder{
			SVGFallbackWidth:  config.SVGFallbackWidth,
			SVGFallbackHeight: config.SVGFallbackHeight,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to initialize converter", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize converter: %w", err)
	}

	logger.Info("core service initialized",
		zap.String("output_directory", config.OutputDirectory),
		zap.Stringers("formats", config.Formats),
		zap.String("filter", string(config.Filter)))

	return &CoreService{
		config:    config,
		converter: converter,
		logger:    logger,
	}, nil
}

// Convert runs one conversion and returns the written path
func (service *CoreService) Convert(ctx context.Context, req convert.Request) (string, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	return service.converter.Convert(ctx, req)
}

// Formats returns the enabled output formats in display order
func (service *CoreService) Formats() []format.Format {
	return service.converter.Formats()
}

func (service *CoreService) OutputDirectory() string {
	return service.converter.OutputDirectory()
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}
