package meshlet

import "sort"

// Adjacency indexes which triangles use each vertex. Triangle-to-triangle
// neighbor queries derive from the per-vertex lists, so construction stays
// O(V+T) no matter how many triangles meet at one vertex. Built once per
// mesh and read-only afterwards.
type Adjacency struct {
	indices []uint32 // borrowed triangle index buffer
	offsets []uint32 // per-vertex start into lists, length V+1
	lists   []uint32 // triangle indices grouped by vertex, ascending within each group
}

// BuildAdjacency validates the mesh buffers and indexes triangle usage
// per vertex. It fails only on malformed input.
func BuildAdjacency(mesh *Mesh) (*Adjacency, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	v := mesh.VertexCount()
	offsets := make([]uint32, v+1)
	for _, idx := range mesh.Indices {
		offsets[idx+1]++
	}
	for i := 1; i <= v; i++ {
		offsets[i] += offsets[i-1]
	}

	lists := make([]uint32, len(mesh.Indices))
	cursor := make([]uint32, v)
	copy(cursor, offsets[:v])
	for t := 0; t < mesh.TriangleCount(); t++ {
		for k := 0; k < 3; k++ {
			vi := mesh.Indices[t*3+k]
			lists[cursor[vi]] = uint32(t)
			cursor[vi]++
		}
	}

	return &Adjacency{indices: mesh.Indices, offsets: offsets, lists: lists}, nil
}

// TrianglesUsing returns the triangles referencing vertex v in ascending
// order. The slice aliases internal storage and must not be modified. A
// triangle referencing v from more than one corner appears once per corner.
func (a *Adjacency) TrianglesUsing(v uint32) []uint32 {
	return a.lists[a.offsets[v]:a.offsets[v+1]]
}

// UseCount returns how many triangle corners reference vertex v.
func (a *Adjacency) UseCount(v uint32) int {
	return int(a.offsets[v+1] - a.offsets[v])
}

// AdjacentTriangles returns the triangles adjacent to t under the given
// mode, ascending and excluding t itself.
func (a *Adjacency) AdjacentTriangles(t uint32, mode AdjacencyMode) []uint32 {
	i := t * 3
	corners := [3]uint32{a.indices[i], a.indices[i+1], a.indices[i+2]}

	shared := make(map[uint32]int)
	for k, v := range corners {
		// Degenerate triangles may repeat a corner; count each distinct
		// vertex once.
		if (k > 0 && v == corners[0]) || (k > 1 && v == corners[1]) {
			continue
		}
		var prev uint32
		first := true
		for _, other := range a.TrianglesUsing(v) {
			if other == t || (!first && other == prev) {
				continue
			}
			prev, first = other, false
			shared[other]++
		}
	}

	min := 1
	if mode == ShareEdge {
		min = 2
	}
	var out []uint32
	for other, n := range shared {
		if n >= min {
			out = append(out, other)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
