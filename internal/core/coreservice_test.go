package core

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jo-hoe/goresize/internal/convert"
	"github.com/jo-hoe/goresize/internal/format"
	"go.uber.org/zap/zaptest"
)

func createTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 6), uint8(y * 8), 90, 255})
		}
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func newTestService(t *testing.T, formats ...format.Format) *CoreService {
	t.Helper()
	config := DefaultConfig()
	config.OutputDirectory = t.TempDir()
	if len(formats) > 0 {
		config.Formats = formats
	}
	service, err := NewCoreService(config, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewCoreService failed: %v", err)
	}
	return service
}

func TestCoreService_Convert(t *testing.T) {
	service := newTestService(t)
	src := filepath.Join(t.TempDir(), "input.png")
	createTestPNG(t, src)

	dest, err := service.Convert(context.Background(), convert.Request{SourcePath: src, Width: 20, Height: 10, Format: format.GIF})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if dest != filepath.Join(service.OutputDirectory(), "20x10.gif") {
		t.Errorf("Unexpected destination %s", dest)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("Expected output file to exist: %v", err)
	}
}

func TestCoreService_ConcurrentCallsAreSerialized(t *testing.T) {
	service := newTestService(t)
	src := filepath.Join(t.TempDir(), "input.png")
	createTestPNG(t, src)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Convert(context.Background(), convert.Request{SourcePath: src, Width: 16, Height: 16, Format: format.PNG})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Concurrent Convert failed: %v", err)
		}
	}

	entries, err := os.ReadDir(service.OutputDirectory())
	if err != nil {
		t.Fatalf("Failed to list output directory: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "16x16.png" {
		t.Errorf("Expected a single 16x16.png, got %v", entries)
	}
}

func TestCoreService_RestrictedFormats(t *testing.T) {
	service := newTestService(t, format.PNG, format.ICO)
	formats := service.Formats()
	if len(formats) != 2 || formats[0] != format.PNG || formats[1] != format.ICO {
		t.Errorf("Expected [PNG ICO], got %v", formats)
	}

	src := filepath.Join(t.TempDir(), "input.png")
	createTestPNG(t, src)
	_, err := service.Convert(context.Background(), convert.Request{SourcePath: src, Width: 5, Height: 5, Format: format.BMP})
	if !errors.Is(err, convert.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for disabled format, got %v", err)
	}
}

func TestNewCoreService_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.OutputDirectory = ""
	if _, err := NewCoreService(config, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for empty output directory")
	}
}
