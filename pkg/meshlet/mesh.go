package meshlet

import (
	"errors"
	"fmt"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
)

// Pipeline errors. Both are fatal: the pipeline never repairs malformed
// topology, since any fix-up would silently change the mesh being processed.
var (
	// ErrInvalidInput reports malformed mesh buffers: a triangle index out
	// of range, an index count that is not a multiple of three, a channel
	// length mismatch, or an empty mesh.
	ErrInvalidInput = errors.New("meshlet: invalid input")
	// ErrInvalidConfig reports limits no cluster could satisfy.
	ErrInvalidConfig = errors.New("meshlet: invalid config")
)

// Mesh is the immutable input: a vertex position buffer with optional
// normal and texture-coordinate channels, plus a flat triangle index buffer.
// The pipeline only reads it; regenerating meshlets means rerunning the
// whole build on (possibly new) buffers.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3 // optional; empty or same length as Positions
	UVs       []math.Vec2 // optional; empty or same length as Positions
	Indices   []uint32    // three consecutive entries per triangle
}

// VertexCount returns the number of vertices in the position buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the global vertex indices of triangle t in winding order.
func (m *Mesh) Triangle(t int) (a, b, c uint32) {
	return m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
}

// FaceNormal derives the unit face normal of triangle t from vertex
// positions and the triangle's winding order. ok is false when the
// triangle is degenerate (zero-length cross product).
func (m *Mesh) FaceNormal(t int) (n math.Vec3, ok bool) {
	a, b, c := m.Triangle(t)
	return faceNormal(m.Positions[a], m.Positions[b], m.Positions[c])
}

// Validate checks the mesh buffers and returns ErrInvalidInput for
// anything the pipeline cannot process.
func (m *Mesh) Validate() error {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("%w: empty mesh", ErrInvalidInput)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidInput, len(m.Indices))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: normal channel has %d entries for %d vertices", ErrInvalidInput, len(m.Normals), len(m.Positions))
	}
	if len(m.UVs) != 0 && len(m.UVs) != len(m.Positions) {
		return fmt.Errorf("%w: uv channel has %d entries for %d vertices", ErrInvalidInput, len(m.UVs), len(m.Positions))
	}

	v := uint32(len(m.Positions))
	for i, idx := range m.Indices {
		if idx >= v {
			return fmt.Errorf("%w: triangle %d references vertex %d (mesh has %d)", ErrInvalidInput, i/3, idx, v)
		}
	}
	return nil
}
