package convert

import (
	"image"

	"golang.org/x/image/draw"
)

// ensureAlpha returns img unchanged when its pixel representation already
// carries alpha, otherwise an NRGBA copy of it
func ensureAlpha(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
