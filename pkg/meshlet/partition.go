package meshlet

// cluster accumulates one meshlet during partitioning: the global vertex
// indices in first-use order and the triangle corners remapped to local
// indices.
type cluster struct {
	vertices  []uint32
	triangles []uint32
}

// partitioner holds the index-based working state reused across clusters.
// No maps are involved, so iteration order and therefore output are fully
// determined by the input.
type partitioner struct {
	mesh *Mesh
	adj  *Adjacency
	opts Options

	assigned []bool
	local    []int32  // global vertex -> local index in the open cluster, -1 when absent
	stamp    []uint32 // last scan epoch that visited each triangle
	epoch    uint32
}

// partition assigns every triangle to exactly one cluster. Seeds are the
// lowest-index unassigned triangles; clusters grow greedily through the
// adjacency until the caps reject every candidate.
func partition(mesh *Mesh, adj *Adjacency, opts Options) []cluster {
	total := mesh.TriangleCount()
	p := &partitioner{
		mesh:     mesh,
		adj:      adj,
		opts:     opts,
		assigned: make([]bool, total),
		local:    make([]int32, mesh.VertexCount()),
		stamp:    make([]uint32, total),
	}
	for i := range p.local {
		p.local[i] = -1
	}

	var clusters []cluster
	seed := 0
	for remaining := total; remaining > 0; {
		for p.assigned[seed] {
			seed++
		}
		c := p.grow(uint32(seed))
		remaining -= len(c.triangles) / 3
		clusters = append(clusters, c)
	}
	return clusters
}

// grow builds one cluster from the seed triangle, repeatedly adding the
// best-scoring adjacent candidate until none fits under the caps.
func (p *partitioner) grow(seed uint32) cluster {
	c := cluster{
		vertices:  make([]uint32, 0, p.opts.MaxVertices),
		triangles: make([]uint32, 0, p.opts.MaxTriangles*3),
	}
	p.add(&c, seed)

	for len(c.triangles)/3 < p.opts.MaxTriangles {
		next, ok := p.selectCandidate(&c)
		if !ok {
			break
		}
		p.add(&c, next)
	}

	// Release the vertex remap for the next cluster.
	for _, v := range c.vertices {
		p.local[v] = -1
	}
	return c
}

// add assigns triangle t to the cluster, extending the vertex remap with
// corners not seen before. Corner order is preserved so winding survives.
func (p *partitioner) add(c *cluster, t uint32) {
	p.assigned[t] = true
	base := int(t) * 3
	for k := 0; k < 3; k++ {
		gv := p.mesh.Indices[base+k]
		li := p.local[gv]
		if li < 0 {
			li = int32(len(c.vertices))
			p.local[gv] = li
			c.vertices = append(c.vertices, gv)
		}
		c.triangles = append(c.triangles, uint32(li))
	}
}

// selectCandidate scans the unassigned triangles touching the cluster's
// vertices and returns the one sharing the most vertices with the cluster,
// ties broken by lowest triangle index. Candidates that would push the
// cluster past MaxVertices, or that do not meet the adjacency mode's
// sharing requirement, are skipped rather than aborting the cluster.
func (p *partitioner) selectCandidate(c *cluster) (uint32, bool) {
	p.epoch++
	minShared := 1
	if p.opts.Adjacency == ShareEdge {
		minShared = 2
	}
	budget := p.opts.MaxVertices - len(c.vertices)

	var best uint32
	bestShared := 0
	found := false
	for _, cv := range c.vertices {
		for _, t := range p.adj.TrianglesUsing(cv) {
			if p.assigned[t] || p.stamp[t] == p.epoch {
				continue
			}
			p.stamp[t] = p.epoch

			shared, fresh := p.countShared(t)
			if shared < minShared || fresh > budget {
				continue
			}
			if !found || shared > bestShared || (shared == bestShared && t < best) {
				best, bestShared, found = t, shared, true
			}
		}
	}
	return best, found
}

// countShared reports how many of t's distinct corner vertices are already
// remapped into the open cluster, and how many would be newly added.
func (p *partitioner) countShared(t uint32) (shared, fresh int) {
	base := int(t) * 3
	a := p.mesh.Indices[base]
	b := p.mesh.Indices[base+1]
	c := p.mesh.Indices[base+2]

	if p.local[a] >= 0 {
		shared++
	} else {
		fresh++
	}
	if b != a {
		if p.local[b] >= 0 {
			shared++
		} else {
			fresh++
		}
	}
	if c != a && c != b {
		if p.local[c] >= 0 {
			shared++
		} else {
			fresh++
		}
	}
	return shared, fresh
}
