// Package convert implements the resize-and-save operation.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/jo-hoe/goresize/internal/codec"
	"github.com/jo-hoe/goresize/internal/format"
	"github.com/jo-hoe/goresize/internal/resample"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// outputFileMode is applied to newly created outputs; the atomic writer's temp files start at 0600
const outputFileMode os.FileMode = 0o644

// Options configures a Converter
type Options struct {
	// OutputDirectory receives every output file. It must already exist.
	OutputDirectory string
	// Formats restricts the accepted output formats. Empty enables every registered format.
	Formats []format.Format
	Filter  resample.Filter
	Decoder codec.Decoder
	// Encoders defaults to codec.DefaultRegistry
	Encoders *codec.Registry
}

// Converter resizes a source image and saves it under a size-derived name
type Converter struct {
	outputDirectory string
	formats         []format.Format
	enabled         map[format.Format]bool
	filter          resample.Filter
	decoder         codec.Decoder
	encoders        *codec.Registry
	logger          *zap.Logger
}

// NewConverter validates opts and creates a Converter
func NewConverter(opts Options, logger *zap.Logger) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutputDirectory == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	encoders := opts.Encoders
	if encoders == nil {
		encoders = codec.DefaultRegistry
	}
	filter := opts.Filter
	if filter == "" {
		filter = resample.Default
	}
	if _, err := resample.ParseFilter(string(filter)); err != nil {
		return nil, err
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = encoders.Formats()
	}
	enabled := make(map[format.Format]bool, len(formats))
	for _, f := range formats {
		if !encoders.IsRegistered(f) {
			return nil, fmt.Errorf("no encoder registered for format %q", f)
		}
		enabled[f] = true
	}

	return &Converter{
		outputDirectory: opts.OutputDirectory,
		formats:         formats,
		enabled:         enabled,
		filter:          filter,
		decoder:         opts.Decoder,
		encoders:        encoders,
		logger:          logger,
	}, nil
}

// Formats returns the accepted output formats
func (c *Converter) Formats() []format.Format {
	return append([]format.Format(nil), c.formats...)
}

// OutputDirectory returns the directory outputs are written to
func (c *Converter) OutputDirectory() string {
	return c.outputDirectory
}

// Destination returns the absolute output path for req
func (c *Converter) Destination(req Request) (string, error) {
	return filepath.Abs(filepath.Join(c.outputDirectory, format.FileName(req.Width, req.Height, req.Format)))
}

// Convert decodes the source, resizes it to exactly the requested dimensions
// and writes it in the requested format. An existing file at the destination
// is replaced. On success the absolute destination path is returned.
func (c *Converter) Convert(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		c.logger.Warn("Converter: rejected request", zap.Error(err))
		return "", err
	}
	if !c.enabled[req.Format] {
		err := newError(KindInvalidRequest, "", fmt.Errorf("output format %s is not enabled", req.Format))
		c.logger.Warn("Converter: rejected request", zap.Error(err))
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", newError(KindCanceled, "", err)
	}

	dest, err := c.Destination(req)
	if err != nil {
		return "", newError(KindIO, c.outputDirectory, err)
	}

	logger := c.logger.With(
		zap.String("source", req.SourcePath),
		zap.String("destination", dest),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Stringer("format", req.Format))
	logger.Info("Converter: starting conversion")

	stepStart := time.Now()
	img, sourceFormat, err := c.decoder.DecodeFile(req.SourcePath)
	if err != nil {
		logger.Error("Converter: failed to decode source", zap.Error(err))
		return "", newError(KindDecode, req.SourcePath, err)
	}
	logger.Debug("Converter: source decoded",
		zap.String("source_format", sourceFormat),
		zap.Int("source_width", img.Bounds().Dx()),
		zap.Int("source_height", img.Bounds().Dy()),
		zap.Duration("duration", time.Since(stepStart)))

	stepStart = time.Now()
	resized, err := resample.Resize(img, req.Width, req.Height, c.filter)
	if err != nil {
		logger.Error("Converter: failed to resize", zap.Error(err))
		return "", newError(KindInvalidRequest, "", err)
	}
	logger.Debug("Converter: resized",
		zap.String("filter", string(c.filter)),
		zap.Duration("duration", time.Since(stepStart)))

	if req.Format == format.ICO {
		resized = ensureAlpha(resized)
	}

	stepStart = time.Now()
	data, err := c.encode(req.Format, resized)
	if err != nil {
		logger.Error("Converter: failed to encode", zap.Error(err))
		return "", newError(KindEncode, "", err)
	}
	logger.Debug("Converter: encoded",
		zap.Int("output_size_bytes", len(data)),
		zap.Duration("duration", time.Since(stepStart)))

	if err := writeFile(dest, data); err != nil {
		logger.Error("Converter: failed to write output", zap.Error(err))
		return "", newError(KindIO, dest, err)
	}

	logger.Info("Converter: conversion completed", zap.Duration("duration", time.Since(start)))
	return dest, nil
}

func (c *Converter) encode(f format.Format, img image.Image) ([]byte, error) {
	encoder, err := c.encoders.Lookup(f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// writeFile replaces dest with data in one rename so a failed write never
// leaves a truncated file behind. Missing directories are not created.
func writeFile(dest string, data []byte) error {
	_, statErr := os.Stat(dest)
	existed := statErr == nil

	if err := atomic.WriteFile(dest, bytes.NewReader(data)); err != nil {
		return err
	}
	if !existed {
		if err := os.Chmod(dest, outputFileMode); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", dest, err)
		}
	}
	return nil
}
