package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

const (
	icoTypeIcon     = 1
	icoHeaderSize   = 6
	icoEntrySize    = 16
	icoBitsPerPixel = 32
	// icoMaxDirSize is stored as 0 in the one-byte directory size fields
	icoMaxDirSize = 256
)

type iconDir struct {
	Reserved  uint16
	ImageType uint16
	NumImages uint16
}

type iconDirEntry struct {
	Width        uint8
	Height       uint8
	NumColors    uint8
	Reserved     uint8
	ColorPlanes  uint16
	BitsPerPixel uint16
	SizeInBytes  uint32
	Offset       uint32
}

// rgbaPayload reports itself as non-opaque so the PNG encoder always writes
// colour type 6 (truecolour with alpha), matching the 32 bpp directory entry.
type rgbaPayload struct {
	*image.NRGBA
}

func (rgbaPayload) Opaque() bool {
	return false
}

// encodeICO writes a single-entry icon holding a PNG-compressed RGBA image.
// Entries of 256px or more store 0 in the directory size bytes; readers take
// the real size from the embedded PNG header.
func encodeICO(w io.Writer, img image.Image) error {
	var payload bytes.Buffer
	if err := png.Encode(&payload, rgbaPayload{toNRGBA(img)}); err != nil {
		return fmt.Errorf("failed to encode icon payload: %w", err)
	}

	bounds := img.Bounds()
	entry := iconDirEntry{
		Width:        icoDirSize(bounds.Dx()),
		Height:       icoDirSize(bounds.Dy()),
		ColorPlanes:  1,
		BitsPerPixel: icoBitsPerPixel,
		SizeInBytes:  uint32(payload.Len()),
		Offset:       icoHeaderSize + icoEntrySize,
	}

	var header bytes.Buffer
	if err := binary.Write(&header, binary.LittleEndian, iconDir{ImageType: icoTypeIcon, NumImages: 1}); err != nil {
		return fmt.Errorf("failed to write icon header: %w", err)
	}
	if err := binary.Write(&header, binary.LittleEndian, entry); err != nil {
		return fmt.Errorf("failed to write icon directory: %w", err)
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

func icoDirSize(n int) uint8 {
	if n >= icoMaxDirSize {
		return 0
	}
	return uint8(n)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
