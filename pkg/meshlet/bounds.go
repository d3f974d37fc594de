package meshlet

import (
	"sync"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
)

// Cross products shorter than this are treated as zero-area triangles.
const degenerateNormalEps = 1e-8

// faceNormal returns the unit normal of the triangle (p0,p1,p2) under its
// winding order. ok is false when the cross product is too short to define
// a direction.
func faceNormal(p0, p1, p2 math.Vec3) (math.Vec3, bool) {
	cross := p1.Sub(p0).Cross(p2.Sub(p0))
	if cross.Length() < degenerateNormalEps {
		return math.Vec3{}, false
	}
	return cross.Normalize(), true
}

// computeBounds fills in the bounding sphere and normal cone of every
// meshlet. Meshlets are independent once partitioning has fixed their
// contents, so with workers > 1 they are spread across a pool; each
// goroutine writes only its own meshlet and the result is identical to
// the serial path.
func computeBounds(mesh *Mesh, meshlets []Meshlet, workers int) {
	if workers > len(meshlets) {
		workers = len(meshlets)
	}
	if workers < 2 {
		for i := range meshlets {
			boundsFor(mesh, &meshlets[i])
		}
		return
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				boundsFor(mesh, &meshlets[i])
			}
		}()
	}
	for i := range meshlets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// boundsFor computes culling bounds for a single meshlet.
//
// The sphere sits at the midpoint of the cluster's AABB with radius
// reaching the farthest referenced position, so containment holds by
// construction. The cone axis is the normalized sum of unit face normals
// and the cutoff the smallest dot product between the axis and any member
// normal. Zero-area triangles contribute no direction; a cluster with no
// usable normal gets an all-covering cone (cutoff -1) so it is never
// wrongly culled.
func boundsFor(mesh *Mesh, m *Meshlet) {
	lo := mesh.Positions[m.Vertices[0]]
	hi := lo
	for _, v := range m.Vertices[1:] {
		p := mesh.Positions[v]
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	center := lo.Add(hi).Scale(0.5)

	var radius float32
	for _, v := range m.Vertices {
		if d := center.Distance(mesh.Positions[v]); d > radius {
			radius = d
		}
	}

	normals := make([]math.Vec3, 0, m.TriangleCount())
	var sum math.Vec3
	for t := 0; t < m.TriangleCount(); t++ {
		p0 := mesh.Positions[m.Vertices[m.Triangles[t*3]]]
		p1 := mesh.Positions[m.Vertices[m.Triangles[t*3+1]]]
		p2 := mesh.Positions[m.Vertices[m.Triangles[t*3+2]]]
		if n, ok := faceNormal(p0, p1, p2); ok {
			normals = append(normals, n)
			sum = sum.Add(n)
		}
	}

	axis := sum.Normalize()
	if axis == (math.Vec3{}) {
		// Valid normals can still cancel out (closed or double-sided
		// surfaces). Any axis is sound as long as the cutoff is taken
		// from the real normals below.
		axis = math.Vec3{X: 0, Y: 1, Z: 0}
	}
	cutoff := float32(-1)
	if len(normals) > 0 {
		cutoff = 1
		for _, n := range normals {
			if d := axis.Dot(n); d < cutoff {
				cutoff = d
			}
		}
	}

	m.Sphere = Sphere{Center: center, Radius: radius}
	m.Cone = Cone{Apex: center, Axis: axis, Cutoff: cutoff}
}
