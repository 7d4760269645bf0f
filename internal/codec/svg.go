package codec

import (
	"bytes"
	"fmt"
	"image"
	"regexp"
	"strconv"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	svgSniffLen = 4096
	svgTagLen   = 8192
)

var svgSizeAttr = regexp.MustCompile(`(?i)(?:^|\s)(width|height)\s*=\s*["']\s*([0-9]+(?:\.[0-9]+)?)`)

// isSVGData looks for an <svg tag or the SVG namespace near the start of data
func isSVGData(data []byte) bool {
	n := min(len(data), svgSniffLen)
	header := bytes.ToLower(data[:n])
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte(`xmlns="http://www.w3.org/2000/svg"`)) ||
		bytes.Contains(header, []byte(`xmlns='http://www.w3.org/2000/svg'`))
}

// parseSvgExplicitSize reads width and height from the root <svg> start tag.
// viewBox is not treated as a pixel size.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := min(len(data), svgTagLen)
	head := bytes.ToLower(data[:n])

	start := bytes.Index(head, []byte("<svg"))
	if start < 0 {
		return 0, 0, false
	}
	end := bytes.IndexByte(head[start:], '>')
	tag := head[start:]
	if end >= 0 {
		tag = head[start : start+end]
	}

	var width, height int
	for _, m := range svgSizeAttr.FindAllSubmatch(tag, -1) {
		v, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil || v < 1 {
			continue
		}
		switch string(m[1]) {
		case "width":
			if width == 0 {
				width = int(v)
			}
		case "height":
			if height == 0 {
				height = int(v)
			}
		}
	}
	if width > 0 && height > 0 {
		return width, height, true
	}
	return 0, 0, false
}

// renderSVG rasterises an SVG document onto a transparent canvas of the given size
func renderSVG(data []byte, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)

	return dst, nil
}
