package resample

import (
	"image"
)

// scaleNearest maps every target pixel to its nearest source pixel
func scaleNearest(src image.Image, width, height int) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xMap := buildIndexMap(bounds.Min.X, bounds.Dx(), width)
	yMap := buildIndexMap(bounds.Min.Y, bounds.Dy(), height)

	parallelFor(height, func(y int) {
		srcY := yMap[y]
		for x := 0; x < width; x++ {
			dst.Set(x, y, src.At(xMap[x], srcY))
		}
	})
	return dst
}

// buildIndexMap returns, for each of the n target positions, the source
// coordinate (offset by origin) it samples from
func buildIndexMap(origin, size, n int) []int {
	m := make([]int, n)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * float64(size) / float64(n))
		if idx >= size {
			idx = size - 1
		}
		m[i] = origin + idx
	}
	return m
}
