package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gioui.org/io/key"
	"gioui.org/x/explorer"
	"github.com/jo-hoe/goresize/internal/convert"
	"github.com/jo-hoe/goresize/internal/format"
	"go.uber.org/zap/zaptest"
)

type fakeConverter struct {
	mu       sync.Mutex
	requests []convert.Request
	release  chan struct{}
	err      error
}

func (c *fakeConverter) Convert(_ context.Context, req convert.Request) (string, error) {
	if c.release != nil {
		<-c.release
	}
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return fmt.Sprintf("/out/%s", format.FileName(req.Width, req.Height, req.Format)), nil
}

func (c *fakeConverter) Formats() []format.Format {
	return format.All()
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected conversion to finish")
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"800", 800},
		{" 42 ", 42},
		{"0", 1},
		{"12345", 9999},
		{"", 600},
		{"abc", 600},
		{"-5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseDimension(tt.input, 600); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestFileLabel(t *testing.T) {
	if got := fileLabel(""); got != noFileLabel {
		t.Errorf("Expected %q, got %q", noFileLabel, got)
	}
	if got := fileLabel("/home/user/Pictures/cat.png"); got != "cat.png" {
		t.Errorf("Expected cat.png, got %q", got)
	}
}

func TestNewForm_Defaults(t *testing.T) {
	f := newForm(&fakeConverter{}, nil, zaptest.NewLogger(t), "")

	req := f.request()
	if req.Width != DefaultWidth || req.Height != DefaultHeight {
		t.Errorf("Expected %dx%d, got %dx%d", DefaultWidth, DefaultHeight, req.Width, req.Height)
	}
	if req.Format != format.PNG {
		t.Errorf("Expected PNG to be preselected, got %v", req.Format)
	}
	if req.SourcePath != "" {
		t.Errorf("Expected empty source, got %q", req.SourcePath)
	}
}

func TestSubmit_Success(t *testing.T) {
	conv := &fakeConverter{}
	f := newForm(conv, nil, zaptest.NewLogger(t), "/tmp/photo.jpg")
	f.width.SetText("32")
	f.height.SetText("0")
	f.format.Value = format.ICO.String()

	done := make(chan struct{})
	if !f.submit(func() { close(done) }) {
		t.Fatal("Expected submit to start a conversion")
	}
	waitDone(t, done)

	if f.height.Text() != "1" {
		t.Errorf("Expected height editor clamped to 1, got %q", f.height.Text())
	}

	pending, status, failed := f.state()
	if pending || failed {
		t.Errorf("Expected finished successful state, got pending=%v failed=%v", pending, failed)
	}
	if status != "Saved to /out/32x1.ico" {
		t.Errorf("Expected saved status, got %q", status)
	}
	if len(conv.requests) != 1 || conv.requests[0].SourcePath != "/tmp/photo.jpg" {
		t.Errorf("Expected one request for /tmp/photo.jpg, got %+v", conv.requests)
	}
}

func TestSubmit_Error(t *testing.T) {
	conv := &fakeConverter{err: convert.ErrNoFileSelected}
	f := newForm(conv, nil, zaptest.NewLogger(t), "")

	done := make(chan struct{})
	f.submit(func() { close(done) })
	waitDone(t, done)

	_, status, failed := f.state()
	if !failed {
		t.Error("Expected failed state")
	}
	if !strings.HasPrefix(status, "no file selected") {
		t.Errorf("Expected no file selected status, got %q", status)
	}
}

func TestSubmit_RejectsWhilePending(t *testing.T) {
	conv := &fakeConverter{release: make(chan struct{})}
	f := newForm(conv, nil, zaptest.NewLogger(t), "/tmp/photo.jpg")

	done := make(chan struct{})
	if !f.submit(func() { close(done) }) {
		t.Fatal("Expected first submit to start")
	}
	if f.submit(nil) {
		t.Error("Expected second submit to be rejected while pending")
	}
	if pending, _, _ := f.state(); !pending {
		t.Error("Expected pending state")
	}

	close(conv.release)
	waitDone(t, done)

	if len(conv.requests) != 1 {
		t.Errorf("Expected exactly one conversion, got %d", len(conv.requests))
	}
}

type fakeChooser struct {
	file io.ReadCloser
	err  error
	exts []string
}

func (c *fakeChooser) ChooseFile(extensions ...string) (io.ReadCloser, error) {
	c.exts = extensions
	return c.file, c.err
}

func chooseAndWait(t *testing.T, f *form) {
	t.Helper()
	done := make(chan struct{})
	if !f.chooseSource(func() { close(done) }) {
		t.Fatal("Expected chooser to open")
	}
	waitDone(t, done)
	f.takeSelected()
}

func TestChooseSource_Selected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.png")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open fixture: %v", err)
	}

	chooser := &fakeChooser{file: file}
	f := newForm(&fakeConverter{}, chooser, zaptest.NewLogger(t), "")
	chooseAndWait(t, f)

	if f.source.Text() != path {
		t.Errorf("Expected source %q, got %q", path, f.source.Text())
	}
	if f.manualEntry() {
		t.Error("Expected the file dialog to stay in use")
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"} {
		found := false
		for _, got := range chooser.exts {
			found = found || got == ext
		}
		if !found {
			t.Errorf("Expected chooser filter to include %s, got %v", ext, chooser.exts)
		}
	}
	if err := file.Close(); err == nil {
		t.Error("Expected chosen file to be closed already")
	}
}

func TestChooseSource_Declined(t *testing.T) {
	f := newForm(&fakeConverter{}, &fakeChooser{err: explorer.ErrUserDecline}, zaptest.NewLogger(t), "/tmp/keep.png")
	chooseAndWait(t, f)

	if f.source.Text() != "/tmp/keep.png" {
		t.Errorf("Expected previous source to be kept, got %q", f.source.Text())
	}
	if _, status, failed := f.state(); status != "" || failed {
		t.Errorf("Expected no status after decline, got %q failed=%v", status, failed)
	}
}

func TestChooseSource_NotAvailableFallsBackToTypedPath(t *testing.T) {
	f := newForm(&fakeConverter{}, &fakeChooser{err: explorer.ErrNotAvailable}, zaptest.NewLogger(t), "")
	if f.manualEntry() {
		t.Fatal("Expected the file dialog before it reports unavailability")
	}
	chooseAndWait(t, f)

	if !f.manualEntry() {
		t.Error("Expected typed path entry after ErrNotAvailable")
	}
}

func TestChooseSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		chooser *fakeChooser
	}{
		{"chooser error", &fakeChooser{err: errors.New("portal crashed")}},
		{"file without path", &fakeChooser{file: io.NopCloser(strings.NewReader("data"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm(&fakeConverter{}, tt.chooser, zaptest.NewLogger(t), "")
			chooseAndWait(t, f)

			if _, status, failed := f.state(); !failed || !strings.HasPrefix(status, "Could not open file") {
				t.Errorf("Expected failure status, got %q failed=%v", status, failed)
			}
			if f.source.Text() != "" {
				t.Errorf("Expected empty source, got %q", f.source.Text())
			}
		})
	}
}

func TestChooseSource_WithoutChooser(t *testing.T) {
	f := newForm(&fakeConverter{}, nil, zaptest.NewLogger(t), "")
	if f.chooseSource(nil) {
		t.Error("Expected no chooser to open")
	}
	if !f.manualEntry() {
		t.Error("Expected typed path entry without a chooser")
	}

	f.useChooser(&fakeChooser{})
	if f.manualEntry() {
		t.Error("Expected the file dialog once a chooser is attached")
	}
}

func TestNextFormat(t *testing.T) {
	f := newForm(&fakeConverter{}, nil, zaptest.NewLogger(t), "")

	var seen []string
	for range format.All() {
		f.nextFormat()
		seen = append(seen, f.format.Value)
	}
	expected := []string{"JPEG", "BMP", "GIF", "ICO", "WEBP", "PNG"}
	if strings.Join(seen, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %v, got %v", expected, seen)
	}
}

func TestShortcutFor(t *testing.T) {
	tests := []struct {
		name     string
		event    key.Event
		expected action
	}{
		{"alt+o", key.Event{Name: "O", Modifiers: key.ModAlt, State: key.Press}, actionChoose},
		{"alt+w", key.Event{Name: "W", Modifiers: key.ModAlt, State: key.Press}, actionFocusWidth},
		{"alt+h", key.Event{Name: "H", Modifiers: key.ModAlt, State: key.Press}, actionFocusHeight},
		{"alt+f", key.Event{Name: "F", Modifiers: key.ModAlt, State: key.Press}, actionNextFormat},
		{"alt+s", key.Event{Name: "S", Modifiers: key.ModAlt, State: key.Press}, actionConvert},
		{"release", key.Event{Name: "S", Modifiers: key.ModAlt, State: key.Release}, actionNone},
		{"no alt", key.Event{Name: "S", State: key.Press}, actionNone},
		{"unbound", key.Event{Name: "Q", Modifiers: key.ModAlt, State: key.Press}, actionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortcutFor(tt.event); got != tt.expected {
				t.Errorf("Expected action %d, got %d", tt.expected, got)
			}
		})
	}
	if got := len(shortcutFilters()); got != len(shortcuts) {
		t.Errorf("Expected %d key filters, got %d", len(shortcuts), got)
	}
}
