package codec

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/jo-hoe/goresize/internal/format"
	"golang.org/x/image/bmp"
)

// Encoders use library defaults only; no per-format tuning is exposed.

func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, nil)
}

func encodeBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

func encodeWEBP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, nil)
}

func init() {
	mustRegister(format.PNG, encodePNG)
	mustRegister(format.JPEG, encodeJPEG)
	mustRegister(format.BMP, encodeBMP)
	mustRegister(format.GIF, encodeGIF)
	mustRegister(format.ICO, encodeICO)
	mustRegister(format.WEBP, encodeWEBP)
}
