package preview

import (
	"image/color"
	gomath "math"
)

// frameBuffer is the render target as flat slices. Depth is larger
// toward the camera; the z-buffer starts at -inf so any covered pixel
// beats the background.
type frameBuffer struct {
	width  int
	height int
	pix    []uint8   // RGBA interleaved
	zbuf   []float32 // depth per pixel
}

func newFrameBuffer(w, h int, bg color.NRGBA) *frameBuffer {
	n := w * h
	fb := &frameBuffer{
		width:  w,
		height: h,
		pix:    make([]uint8, n*4),
		zbuf:   make([]float32, n),
	}
	negInf := float32(gomath.Inf(-1))
	for i := 0; i < n; i++ {
		fb.zbuf[i] = negInf
		fb.pix[i*4+0] = bg.R
		fb.pix[i*4+1] = bg.G
		fb.pix[i*4+2] = bg.B
		fb.pix[i*4+3] = bg.A
	}
	return fb
}

// fillTriangle rasterizes one screen-space triangle with a z-buffer and
// a flat fill color. No allocation in the pixel loop.
func (fb *frameBuffer) fillTriangle(px, py, pz []float32, i0, i1, i2 int, col color.NRGBA) {
	x0, y0 := float64(px[i0]), float64(py[i0])
	x1, y1 := float64(px[i1]), float64(py[i1])
	x2, y2 := float64(px[i2]), float64(py[i2])
	d0, d1, d2 := pz[i0], pz[i1], pz[i2]

	minX := int(gomath.Min(gomath.Min(x0, x1), x2))
	maxX := int(gomath.Max(gomath.Max(x0, x1), x2)) + 1
	minY := int(gomath.Min(gomath.Min(y0, y1), y2))
	maxY := int(gomath.Max(gomath.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.width {
		maxX = fb.width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.height {
		maxY = fb.height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := float32(w0)*d0 + float32(w1)*d1 + float32(w2)*d2
			zIdx := rowOff + sx
			if z <= fb.zbuf[zIdx] {
				continue
			}
			fb.zbuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.pix[pxIdx] = col.R
			fb.pix[pxIdx+1] = col.G
			fb.pix[pxIdx+2] = col.B
			fb.pix[pxIdx+3] = col.A
		}
	}
}
