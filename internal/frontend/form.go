package frontend

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gioui.org/widget"
	"gioui.org/x/explorer"
	"github.com/jo-hoe/goresize/internal/convert"
	"github.com/jo-hoe/goresize/internal/format"
	"go.uber.org/zap"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	noFileLabel = "No file selected"
)

// sourceExtensions filters the file chooser to decodable images
var sourceExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp", ".tif", ".tiff", ".svg"}

// Converter is the operation the window drives.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) (string, error)
	Formats() []format.Format
}

// FileChooser opens a native file dialog. *explorer.Explorer implements it.
type FileChooser interface {
	ChooseFile(extensions ...string) (io.ReadCloser, error)
}

// form holds the widget state of the window and the outcome of the last
// conversion. Widget fields are only touched from the UI goroutine; the
// fields under mu are shared with the conversion and chooser goroutines.
type form struct {
	converter Converter
	logger    *zap.Logger
	formats   []format.Format

	chooser FileChooser

	source  widget.Editor
	width   widget.Editor
	height  widget.Editor
	format  widget.Enum
	choose  widget.Clickable
	convert widget.Clickable

	mu       sync.Mutex
	pending  bool
	choosing bool
	manual   bool
	selected string
	status   string
	failed   bool
}

func newForm(converter Converter, chooser FileChooser, logger *zap.Logger, source string) *form {
	f := &form{
		converter: converter,
		chooser:   chooser,
		manual:    chooser == nil,
		logger:    logger,
		formats:   converter.Formats(),
		source:    widget.Editor{SingleLine: true, Submit: true},
		width:     widget.Editor{SingleLine: true, Filter: "0123456789", MaxLen: 4},
		height:    widget.Editor{SingleLine: true, Filter: "0123456789", MaxLen: 4},
	}
	f.source.SetText(source)
	f.width.SetText(strconv.Itoa(DefaultWidth))
	f.height.SetText(strconv.Itoa(DefaultHeight))
	if len(f.formats) > 0 {
		f.format.Value = f.formats[0].String()
	}
	return f
}

// parseDimension reads a spin-box style value, clamping it to the accepted
// range. Empty or unparsable input yields the fallback.
func parseDimension(text string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fallback
	}
	return min(max(n, convert.MinDimension), convert.MaxDimension)
}

// fileLabel shows the base name of the selected file.
func fileLabel(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return noFileLabel
	}
	return filepath.Base(path)
}

func statusText(dest string, err error) string {
	if err != nil {
		return convert.Message(err)
	}
	return "Saved to " + dest
}

func (f *form) request() convert.Request {
	req := convert.Request{
		SourcePath: strings.TrimSpace(f.source.Text()),
		Width:      parseDimension(f.width.Text(), DefaultWidth),
		Height:     parseDimension(f.height.Text(), DefaultHeight),
	}
	if selected, err := format.Parse(f.format.Value); err == nil {
		req.Format = selected
	}
	return req
}

// normalize writes clamped dimensions back into the editors.
func (f *form) normalize(req convert.Request) {
	if w := strconv.Itoa(req.Width); f.width.Text() != w {
		f.width.SetText(w)
	}
	if h := strconv.Itoa(req.Height); f.height.Text() != h {
		f.height.SetText(h)
	}
}

// submit starts a conversion unless one is already running. done is called
// from the conversion goroutine once the status has been updated.
func (f *form) submit(done func()) bool {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return false
	}
	f.pending = true
	f.mu.Unlock()

	req := f.request()
	f.normalize(req)

	go func() {
		dest, err := f.converter.Convert(context.Background(), req)
		if err != nil {
			f.logger.Warn("Frontend: conversion failed", zap.Error(err))
		}

		f.mu.Lock()
		f.pending = false
		f.status = statusText(dest, err)
		f.failed = err != nil
		f.mu.Unlock()

		if done != nil {
			done()
		}
	}()
	return true
}

// chooseSource opens the file chooser unless it is already open. The chosen
// path is handed to the UI goroutine through takeSelected. When no native
// dialog exists the form switches to a typed path.
func (f *form) chooseSource(done func()) bool {
	f.mu.Lock()
	if f.choosing || f.chooser == nil {
		if f.chooser == nil {
			f.manual = true
		}
		f.mu.Unlock()
		return false
	}
	f.choosing = true
	chooser := f.chooser
	f.mu.Unlock()

	go func() {
		path, err := chooseFile(chooser)

		f.mu.Lock()
		f.choosing = false
		switch {
		case err == nil:
			f.selected = path
		case errors.Is(err, explorer.ErrUserDecline):
		case errors.Is(err, explorer.ErrNotAvailable):
			f.manual = true
			f.status = "File dialog not available: type the image path"
			f.failed = false
		default:
			f.logger.Warn("Frontend: file chooser failed", zap.Error(err))
			f.status = "Could not open file: " + err.Error()
			f.failed = true
		}
		f.mu.Unlock()

		if done != nil {
			done()
		}
	}()
	return true
}

func chooseFile(chooser FileChooser) (string, error) {
	file, err := chooser.ChooseFile(sourceExtensions...)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	named, ok := file.(interface{ Name() string })
	if !ok || named.Name() == "" {
		return "", errors.New("the selected file has no local path")
	}
	return named.Name(), nil
}

// takeSelected moves a freshly chosen path into the source field
func (f *form) takeSelected() {
	f.mu.Lock()
	path := f.selected
	f.selected = ""
	f.mu.Unlock()

	if path != "" {
		f.source.SetText(path)
	}
}

// nextFormat selects the format after the current one, wrapping around
func (f *form) nextFormat() {
	if len(f.formats) == 0 {
		return
	}
	next := 0
	for i, candidate := range f.formats {
		if candidate.String() == f.format.Value {
			next = (i + 1) % len(f.formats)
			break
		}
	}
	f.format.Value = f.formats[next].String()
}

func (f *form) useChooser(chooser FileChooser) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chooser = chooser
	f.manual = chooser == nil
}

func (f *form) manualEntry() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manual
}

func (f *form) state() (pending bool, status string, failed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, f.status, f.failed
}
