package codec

import (
	"fmt"
	"image"
	"io"

	"github.com/jo-hoe/goresize/internal/format"
)

// Encoder writes an image in one container format
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// EncoderFunc adapts a plain function to the Encoder interface
type EncoderFunc func(w io.Writer, img image.Image) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image) error {
	return f(w, img)
}

// Registry maps output formats to their encoders
type Registry struct {
	encoders map[format.Format]Encoder
}

// NewRegistry creates an empty encoder registry
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[format.Format]Encoder),
	}
}

// Register adds an encoder for the given format
func (r *Registry) Register(f format.Format, encoder Encoder) error {
	if f.IsZero() {
		return fmt.Errorf("format cannot be empty")
	}
	if encoder == nil {
		return fmt.Errorf("encoder cannot be nil")
	}
	if _, exists := r.encoders[f]; exists {
		return fmt.Errorf("encoder for %s is already registered", f)
	}
	r.encoders[f] = encoder
	return nil
}

// Lookup returns the encoder registered for the given format
func (r *Registry) Lookup(f format.Format) (Encoder, error) {
	encoder, exists := r.encoders[f]
	if !exists {
		return nil, fmt.Errorf("no encoder registered for format %q", f)
	}
	return encoder, nil
}

// IsRegistered checks if an encoder for the given format is registered
func (r *Registry) IsRegistered(f format.Format) bool {
	_, exists := r.encoders[f]
	return exists
}

// Formats returns the registered formats in display order
func (r *Registry) Formats() []format.Format {
	formats := make([]format.Format, 0, len(r.encoders))
	for _, f := range format.All() {
		if r.IsRegistered(f) {
			formats = append(formats, f)
		}
	}
	return formats
}

// DefaultRegistry holds an encoder for every supported output format
var DefaultRegistry = NewRegistry()

func mustRegister(f format.Format, encoder EncoderFunc) {
	if err := DefaultRegistry.Register(f, encoder); err != nil {
		panic(fmt.Sprintf("failed to register %s encoder: %v", f, err))
	}
}
