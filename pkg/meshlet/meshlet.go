// Package meshlet partitions triangle meshes into small bounded clusters
// for GPU mesh-shading pipelines. Each cluster stays under a vertex and a
// triangle cap and carries a bounding sphere and a normal cone, so a
// renderer can cull whole clusters before any per-triangle work. Output
// is deterministic: the same mesh and options always produce the same
// meshlets in the same order.
package meshlet

import (
	"fmt"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
)

// Sphere bounds all vertex positions a meshlet references.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// Cone bounds the spread of a meshlet's face normals. Cutoff is the cosine
// of the cone half-angle; every member face normal n satisfies
// dot(Axis, n) >= Cutoff. A cluster whose cone faces entirely away from
// the camera can be rejected without touching its triangles.
type Cone struct {
	Apex   math.Vec3 // coincides with the bounding sphere center
	Axis   math.Vec3
	Cutoff float32
}

// Meshlet is one cluster of the partition.
type Meshlet struct {
	// Vertices holds the global vertex indices this cluster references,
	// without duplicates, in first-use order. Triangle corners address
	// this slice.
	Vertices []uint32
	// Triangles holds three local indices per triangle, preserving the
	// input winding order.
	Triangles []uint32

	Sphere Sphere
	Cone   Cone
}

// VertexCount returns the number of distinct vertices the meshlet references.
func (m *Meshlet) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles in the meshlet.
func (m *Meshlet) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Triangle returns the global vertex indices of the meshlet's triangle t.
func (m *Meshlet) Triangle(t int) (a, b, c uint32) {
	return m.Vertices[m.Triangles[t*3]], m.Vertices[m.Triangles[t*3+1]], m.Vertices[m.Triangles[t*3+2]]
}

// Set is the ordered result of partitioning one mesh.
type Set struct {
	Meshlets []Meshlet
}

// Count returns the number of meshlets.
func (s *Set) Count() int {
	return len(s.Meshlets)
}

// TriangleCount returns the total triangle count across all meshlets.
func (s *Set) TriangleCount() int {
	n := 0
	for i := range s.Meshlets {
		n += s.Meshlets[i].TriangleCount()
	}
	return n
}

// VertexRefCount returns the total number of vertex references across all
// meshlets. The excess over the mesh's vertex count measures duplication
// along cluster seams.
func (s *Set) VertexRefCount() int {
	n := 0
	for i := range s.Meshlets {
		n += len(s.Meshlets[i].Vertices)
	}
	return n
}

// Build partitions mesh into meshlets bounded by opts and annotates each
// with culling bounds. The input buffers are only read. Options are
// checked before any partitioning work begins.
func Build(mesh *Mesh, opts Options) (*Set, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	adj, err := BuildAdjacency(mesh)
	if err != nil {
		return nil, err
	}

	clusters := partition(mesh, adj, opts)
	set := &Set{Meshlets: make([]Meshlet, len(clusters))}
	for i, c := range clusters {
		set.Meshlets[i] = Meshlet{Vertices: c.vertices, Triangles: c.triangles}
	}
	computeBounds(mesh, set.Meshlets, opts.Workers)
	return set, nil
}

// Validate checks the set against its source mesh and the options it was
// built with: every input triangle covered exactly once, caps respected,
// local indices in range, no duplicate or unused vertex references, and
// bounds that actually contain their cluster. The meshlettool validate
// command runs these same checks on deserialized sets.
func (s *Set) Validate(mesh *Mesh, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := mesh.Validate(); err != nil {
		return err
	}

	remaining := make(map[[3]uint32]int, mesh.TriangleCount())
	for t := 0; t < mesh.TriangleCount(); t++ {
		a, b, c := mesh.Triangle(t)
		remaining[[3]uint32{a, b, c}]++
	}

	for i := range s.Meshlets {
		m := &s.Meshlets[i]
		if err := s.validateMeshlet(mesh, m, opts, i, remaining); err != nil {
			return err
		}
	}

	for t := 0; t < mesh.TriangleCount(); t++ {
		a, b, c := mesh.Triangle(t)
		if remaining[[3]uint32{a, b, c}] != 0 {
			return fmt.Errorf("triangle %d not covered by any meshlet", t)
		}
	}
	return nil
}

func (s *Set) validateMeshlet(mesh *Mesh, m *Meshlet, opts Options, i int, remaining map[[3]uint32]int) error {
	if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
		return fmt.Errorf("meshlet %d: empty", i)
	}
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("meshlet %d: corner count %d is not a multiple of 3", i, len(m.Triangles))
	}
	if len(m.Vertices) > opts.MaxVertices {
		return fmt.Errorf("meshlet %d: %d vertices exceeds cap %d", i, len(m.Vertices), opts.MaxVertices)
	}
	if m.TriangleCount() > opts.MaxTriangles {
		return fmt.Errorf("meshlet %d: %d triangles exceeds cap %d", i, m.TriangleCount(), opts.MaxTriangles)
	}

	seen := make(map[uint32]bool, len(m.Vertices))
	for _, v := range m.Vertices {
		if int(v) >= mesh.VertexCount() {
			return fmt.Errorf("meshlet %d: references vertex %d (mesh has %d)", i, v, mesh.VertexCount())
		}
		if seen[v] {
			return fmt.Errorf("meshlet %d: vertex %d listed twice", i, v)
		}
		seen[v] = true
	}

	used := make([]bool, len(m.Vertices))
	for _, li := range m.Triangles {
		if int(li) >= len(m.Vertices) {
			return fmt.Errorf("meshlet %d: local index %d out of range (%d vertices)", i, li, len(m.Vertices))
		}
		used[li] = true
	}
	for slot, ok := range used {
		if !ok {
			return fmt.Errorf("meshlet %d: vertex slot %d never referenced", i, slot)
		}
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		key := [3]uint32{a, b, c}
		if remaining[key] == 0 {
			return fmt.Errorf("meshlet %d: triangle (%d %d %d) duplicated or absent from the mesh", i, a, b, c)
		}
		remaining[key]--
	}

	eps := m.Sphere.Radius*1e-5 + 1e-6
	for _, v := range m.Vertices {
		if d := m.Sphere.Center.Distance(mesh.Positions[v]); d > m.Sphere.Radius+eps {
			return fmt.Errorf("meshlet %d: vertex %d outside bounding sphere (%g > %g)", i, v, d, m.Sphere.Radius)
		}
	}
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		n, ok := faceNormal(mesh.Positions[a], mesh.Positions[b], mesh.Positions[c])
		if !ok {
			continue
		}
		if d := m.Cone.Axis.Dot(n); d < m.Cone.Cutoff-1e-5 {
			return fmt.Errorf("meshlet %d: triangle (%d %d %d) normal outside cone (%g < %g)", i, a, b, c, d, m.Cone.Cutoff)
		}
	}
	return nil
}
