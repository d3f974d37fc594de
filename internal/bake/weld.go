// Package bake runs the OBJ to meshlet pipeline: parse, weld, partition,
// export. Batch mode fans the per-file pipeline out over a worker pool.
package bake

import (
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/formats"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

// weldEpsilon quantizes positions for the weld map. OBJ exporters split
// vertices along attribute seams; corners closer than this collapse into
// one vertex so the partitioner sees the surface as connected.
const weldEpsilon float32 = 0.001

// Weld flattens a parsed OBJ into a single-index mesh for partitioning.
// The first corner to claim a position supplies its normal and UV. The
// normal and UV channels are kept only when every face corner carries
// them, since the mesh requires complete channels.
func Weld(obj *formats.OBJ) (*meshlet.Mesh, error) {
	haveNormals := len(obj.Normals) > 0
	haveUVs := len(obj.UVs) > 0
	for _, f := range obj.Faces {
		for k := 0; k < 3; k++ {
			if f.Normal[k] < 0 {
				haveNormals = false
			}
			if f.UV[k] < 0 {
				haveUVs = false
			}
		}
	}

	mesh := &meshlet.Mesh{
		Indices: make([]uint32, 0, len(obj.Faces)*3),
	}
	seen := make(map[[3]int32]uint32, len(obj.Positions))

	for _, f := range obj.Faces {
		for k := 0; k < 3; k++ {
			pos := obj.Positions[f.Position[k]]
			key := quantizePosition(pos)

			id, ok := seen[key]
			if !ok {
				id = uint32(len(mesh.Positions))
				seen[key] = id
				mesh.Positions = append(mesh.Positions, pos)
				if haveNormals {
					mesh.Normals = append(mesh.Normals, obj.Normals[f.Normal[k]])
				}
				if haveUVs {
					mesh.UVs = append(mesh.UVs, obj.UVs[f.UV[k]])
				}
			}
			mesh.Indices = append(mesh.Indices, id)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func quantizePosition(p math.Vec3) [3]int32 {
	return [3]int32{
		int32(p.X / weldEpsilon),
		int32(p.Y / weldEpsilon),
		int32(p.Z / weldEpsilon),
	}
}
