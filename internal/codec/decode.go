package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns source files into in-memory bitmaps
type Decoder struct {
	// SVG sources without explicit width/height are rendered at this size
	SVGFallbackWidth  int
	SVGFallbackHeight int
}

// DecodeFile opens and decodes the image at path. The returned string names
// the detected source container.
func (d Decoder) DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = f.Close() // read-only handle, nothing to flush
	}()

	return d.Decode(f)
}

// Decode reads the whole stream and decodes it as a raster image, falling
// back to SVG for text input
func (d Decoder) Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image data is empty")
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, name, nil
	}
	// Raster containers are recognised by their magic bytes; only data no
	// registered decoder claims is tried as SVG
	if errors.Is(err, image.ErrFormat) && isSVGData(data) {
		svg, svgErr := d.decodeSVG(data)
		if svgErr != nil {
			return nil, "", svgErr
		}
		return svg, "svg", nil
	}
	return nil, "", fmt.Errorf("failed to decode image: %w", err)
}

func (d Decoder) decodeSVG(data []byte) (image.Image, error) {
	w, h, ok := parseSvgExplicitSize(data)
	if !ok {
		w, h = d.SVGFallbackWidth, d.SVGFallbackHeight
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG has no explicit size and no fallback size is set")
	}
	return renderSVG(data, w, h)
}
