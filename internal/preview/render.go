// Package preview renders a partitioned mesh to a debug image with one
// color per meshlet, so a bad split is visible at a glance. The raster
// path is software only; the renderer proper never enters this package.
package preview

import (
	"image"
	"image/color"
	gomath "math"

	"golang.org/x/image/draw"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

// Options controls the rendered image.
type Options struct {
	Width       int
	Height      int
	Supersample int     // raster at N times the target size, then filter down
	YawDeg      float32 // rotation around Y applied before projection
	PitchDeg    float32 // rotation around X applied before projection
}

// DefaultOptions returns the render settings the CLI uses when the
// config does not override them.
func DefaultOptions() Options {
	return Options{Width: 640, Height: 640, Supersample: 2, YawDeg: 45, PitchDeg: 25}
}

// background is dark but not black, so the frame reads as an image even
// where no meshlet covers it.
var background = color.NRGBA{R: 24, G: 24, B: 28, A: 255}

// lightDir is a headlamp tilted off the view axis; straight-on light
// would flatten every front-facing triangle to the same shade.
var lightDir = math.Vec3{X: 0.3, Y: 0.5, Z: 0.8}.Normalize()

const (
	shadeAmbient = 0.35
	shadeDiffuse = 0.65
	fitMargin    = 16 // frame pixels kept clear around the model, times supersample
)

// Render draws the partition orthographically with flat shading and one
// palette color per meshlet. The output is deterministic for a given
// mesh, set and options.
func Render(mesh *meshlet.Mesh, set *meshlet.Set, opts Options) *image.NRGBA {
	w, h, ss := opts.Width, opts.Height, opts.Supersample
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if ss < 1 {
		ss = 1
	}
	rw, rh := w*ss, h*ss

	fb := newFrameBuffer(rw, rh, background)
	px, py, pz, rotated := project(mesh.Positions, opts, rw, rh, ss)

	for mi := range set.Meshlets {
		m := &set.Meshlets[mi]
		base := meshletColor(mi)
		for t := 0; t < m.TriangleCount(); t++ {
			a, b, c := m.Triangle(t)
			n, ok := faceNormal(rotated[a], rotated[b], rotated[c])
			shade := float32(shadeAmbient)
			if ok {
				d := n.Dot(lightDir)
				if d < 0 {
					d = -d
				}
				shade += shadeDiffuse * d
			}
			fb.fillTriangle(px, py, pz, int(a), int(b), int(c), shadeColor(base, shade))
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, rw, rh))
	copy(img.Pix, fb.pix)
	return downsample(img, w, h)
}

// project rotates the positions, fits the rotated bounds into the frame
// with a margin, and returns per-vertex screen coordinates plus depth.
// Depth is the rotated Z, larger toward the camera.
func project(positions []math.Vec3, opts Options, rw, rh, ss int) (px, py, pz []float32, rotated []math.Vec3) {
	rot := math.RotateX(radians(opts.PitchDeg)).Mul(math.RotateY(radians(opts.YawDeg)))

	rotated = make([]math.Vec3, len(positions))
	inf := float32(gomath.Inf(1))
	lo := math.Vec3{X: inf, Y: inf, Z: inf}
	hi := math.Vec3{X: -inf, Y: -inf, Z: -inf}
	for i, p := range positions {
		q := rot.TransformVec3(p)
		rotated[i] = q
		lo = lo.Min(q)
		hi = hi.Max(q)
	}

	center := lo.Add(hi).Scale(0.5)
	spanX := hi.X - lo.X
	spanY := hi.Y - lo.Y
	if spanX < 1e-3 {
		spanX = 1e-3
	}
	if spanY < 1e-3 {
		spanY = 1e-3
	}

	margin := float32(fitMargin * ss)
	scaleX := (float32(rw) - 2*margin) / spanX
	scaleY := (float32(rh) - 2*margin) / spanY
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale < 0 {
		scale = 0
	}

	px = make([]float32, len(positions))
	py = make([]float32, len(positions))
	pz = make([]float32, len(positions))
	halfW := float32(rw) / 2
	halfH := float32(rh) / 2
	for i, q := range rotated {
		px[i] = halfW + (q.X-center.X)*scale
		py[i] = halfH - (q.Y-center.Y)*scale
		pz[i] = q.Z
	}
	return px, py, pz, rotated
}

func faceNormal(p0, p1, p2 math.Vec3) (math.Vec3, bool) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Length() < 1e-8 {
		return math.Vec3{}, false
	}
	return n.Normalize(), true
}

func shadeColor(c color.NRGBA, shade float32) color.NRGBA {
	if shade > 1 {
		shade = 1
	}
	return color.NRGBA{
		R: uint8(float32(c.R)*shade + 0.5),
		G: uint8(float32(c.G)*shade + 0.5),
		B: uint8(float32(c.B)*shade + 0.5),
		A: c.A,
	}
}

func radians(deg float32) float32 {
	return deg * gomath.Pi / 180
}

// downsample filters the supersampled frame to the target size. The
// frame is opaque, so no premultiply pass is needed before scaling.
func downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
