package meshlet

import "fmt"

// Default cluster limits, chosen to match common mesh-shading hardware
// caps on threadgroup payload size.
const (
	DefaultMaxVertices  = 64
	DefaultMaxTriangles = 126
)

// AdjacencyMode selects which triangles count as neighbors when growing
// a cluster.
type AdjacencyMode int

const (
	// ShareVertex treats triangles as adjacent when they share at least
	// one vertex.
	ShareVertex AdjacencyMode = iota
	// ShareEdge requires at least two shared vertices. Clusters grow more
	// compactly but fan-heavy meshes split into more meshlets.
	ShareEdge
)

// String returns the mode's command line name.
func (m AdjacencyMode) String() string {
	switch m {
	case ShareVertex:
		return "vertex"
	case ShareEdge:
		return "edge"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseAdjacencyMode converts a mode name ("vertex" or "edge") to an
// AdjacencyMode.
func ParseAdjacencyMode(s string) (AdjacencyMode, error) {
	switch s {
	case "vertex":
		return ShareVertex, nil
	case "edge":
		return ShareEdge, nil
	default:
		return 0, fmt.Errorf("%w: unknown adjacency mode %q", ErrInvalidConfig, s)
	}
}

// Options configures meshlet generation.
type Options struct {
	// MaxVertices caps the number of distinct vertices one meshlet may
	// reference. Minimum 3, since a triangle has three corners.
	MaxVertices int
	// MaxTriangles caps the number of triangles in one meshlet.
	// Minimum 1.
	MaxTriangles int
	// Adjacency selects the neighbor relation used during cluster growth.
	Adjacency AdjacencyMode
	// Workers bounds the goroutines used for per-cluster bounds
	// computation. Values below 2 keep the build single-threaded; the
	// output is identical either way.
	Workers int
}

// DefaultOptions returns the limits used by the renderer's mesh shaders.
func DefaultOptions() Options {
	return Options{
		MaxVertices:  DefaultMaxVertices,
		MaxTriangles: DefaultMaxTriangles,
		Adjacency:    ShareVertex,
	}
}

// Validate returns ErrInvalidConfig for limits no cluster could satisfy.
func (o Options) Validate() error {
	if o.MaxVertices < 3 {
		return fmt.Errorf("%w: MaxVertices %d (minimum 3)", ErrInvalidConfig, o.MaxVertices)
	}
	if o.MaxTriangles < 1 {
		return fmt.Errorf("%w: MaxTriangles %d (minimum 1)", ErrInvalidConfig, o.MaxTriangles)
	}
	if o.Adjacency != ShareVertex && o.Adjacency != ShareEdge {
		return fmt.Errorf("%w: unknown adjacency mode %d", ErrInvalidConfig, int(o.Adjacency))
	}
	return nil
}
