package meshlet

import (
	"errors"
	"fmt"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
)

// ErrPackRange reports a meshlet whose vertex list cannot be addressed by
// the packed form's 8-bit local indices.
var ErrPackRange = errors.New("meshlet: vertex count exceeds 8-bit local index range")

// Descriptor is the GPU-facing meshlet record consumed by the renderer's
// mesh shaders. Cone packs the axis in xyz and the cutoff cosine in w;
// Sphere packs the center in xyz and the radius in w.
type Descriptor struct {
	VertexOffset   uint32
	TriangleOffset uint32
	VertexCount    uint32
	TriangleCount  uint32
	Cone           [4]float32
	Sphere         [4]float32
}

// Packed flattens a Set into shared buffers ready for upload: one
// descriptor per meshlet, the concatenated global vertex indices, and the
// concatenated local triangle corners. VertexOffset indexes VertexIndices;
// TriangleOffset indexes TriangleIndices and advances three per triangle.
type Packed struct {
	Descriptors     []Descriptor
	VertexIndices   []uint32
	TriangleIndices []uint8
}

// Pack flattens the set. It fails with ErrPackRange if any meshlet
// references more than 256 vertices, since corners are stored as uint8.
func Pack(set *Set) (*Packed, error) {
	p := &Packed{Descriptors: make([]Descriptor, 0, len(set.Meshlets))}
	for i := range set.Meshlets {
		m := &set.Meshlets[i]
		if len(m.Vertices) > 256 {
			return nil, fmt.Errorf("%w: meshlet %d has %d vertices", ErrPackRange, i, len(m.Vertices))
		}

		p.Descriptors = append(p.Descriptors, Descriptor{
			VertexOffset:   uint32(len(p.VertexIndices)),
			TriangleOffset: uint32(len(p.TriangleIndices)),
			VertexCount:    uint32(len(m.Vertices)),
			TriangleCount:  uint32(m.TriangleCount()),
			Cone:           [4]float32{m.Cone.Axis.X, m.Cone.Axis.Y, m.Cone.Axis.Z, m.Cone.Cutoff},
			Sphere:         [4]float32{m.Sphere.Center.X, m.Sphere.Center.Y, m.Sphere.Center.Z, m.Sphere.Radius},
		})
		p.VertexIndices = append(p.VertexIndices, m.Vertices...)
		for _, li := range m.Triangles {
			p.TriangleIndices = append(p.TriangleIndices, uint8(li))
		}
	}
	return p, nil
}

// Unpack reconstructs the meshlet set from the flattened buffers. The cone
// apex is restored as the sphere center, which is where Pack took it from,
// so a Pack/Unpack round trip is lossless.
func (p *Packed) Unpack() (*Set, error) {
	set := &Set{Meshlets: make([]Meshlet, len(p.Descriptors))}
	for i, d := range p.Descriptors {
		vEnd := uint64(d.VertexOffset) + uint64(d.VertexCount)
		tEnd := uint64(d.TriangleOffset) + uint64(d.TriangleCount)*3
		if vEnd > uint64(len(p.VertexIndices)) || tEnd > uint64(len(p.TriangleIndices)) {
			return nil, fmt.Errorf("%w: descriptor %d points outside the packed buffers", ErrInvalidInput, i)
		}

		m := &set.Meshlets[i]
		m.Vertices = append([]uint32(nil), p.VertexIndices[d.VertexOffset:uint32(vEnd)]...)
		m.Triangles = make([]uint32, 0, d.TriangleCount*3)
		for _, li := range p.TriangleIndices[d.TriangleOffset:uint32(tEnd)] {
			if uint32(li) >= d.VertexCount {
				return nil, fmt.Errorf("%w: descriptor %d corner %d out of range (%d vertices)", ErrInvalidInput, i, li, d.VertexCount)
			}
			m.Triangles = append(m.Triangles, uint32(li))
		}

		center := math.Vec3{X: d.Sphere[0], Y: d.Sphere[1], Z: d.Sphere[2]}
		m.Sphere = Sphere{Center: center, Radius: d.Sphere[3]}
		m.Cone = Cone{
			Apex:   center,
			Axis:   math.Vec3{X: d.Cone[0], Y: d.Cone[1], Z: d.Cone[2]},
			Cutoff: d.Cone[3],
		}
	}
	return set, nil
}
