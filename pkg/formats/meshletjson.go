package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

// ErrInvalidMeshletJSON reports meshlet JSON whose structure cannot map
// back onto an in-memory set.
var ErrInvalidMeshletJSON = errors.New("invalid meshlet JSON")

// meshletJSON is the renderer-facing payload shape: cone packs the axis
// in the first three entries and the cutoff cosine in the fourth.
type meshletJSON struct {
	Vertices  []uint32       `json:"vertices"`
	Triangles []uint32       `json:"triangles"`
	Cone      [4]float32     `json:"cone"`
	Sphere    sphereJSONData `json:"sphere"`
}

type sphereJSONData struct {
	Center [3]float32 `json:"center"`
	Radius float32    `json:"radius"`
}

// MarshalMeshletJSON encodes a set as the renderer's meshlets.json
// payload, indented for diffability.
func MarshalMeshletJSON(set *meshlet.Set) ([]byte, error) {
	out := make([]meshletJSON, len(set.Meshlets))
	for i := range set.Meshlets {
		m := &set.Meshlets[i]
		out[i] = meshletJSON{
			Vertices:  m.Vertices,
			Triangles: m.Triangles,
			Cone:      [4]float32{m.Cone.Axis.X, m.Cone.Axis.Y, m.Cone.Axis.Z, m.Cone.Cutoff},
			Sphere: sphereJSONData{
				Center: [3]float32{m.Sphere.Center.X, m.Sphere.Center.Y, m.Sphere.Center.Z},
				Radius: m.Sphere.Radius,
			},
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseMeshletJSON restores a meshlet set from its JSON payload. The cone
// apex is restored as the sphere center, matching how the payload was
// produced.
func ParseMeshletJSON(data []byte) (*meshlet.Set, error) {
	var raw []meshletJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMeshletJSON, err)
	}

	set := &meshlet.Set{Meshlets: make([]meshlet.Meshlet, len(raw))}
	for i, r := range raw {
		if len(r.Triangles)%3 != 0 {
			return nil, fmt.Errorf("%w: meshlet %d corner count %d is not a multiple of 3", ErrInvalidMeshletJSON, i, len(r.Triangles))
		}
		for _, li := range r.Triangles {
			if int(li) >= len(r.Vertices) {
				return nil, fmt.Errorf("%w: meshlet %d local index %d out of range (%d vertices)", ErrInvalidMeshletJSON, i, li, len(r.Vertices))
			}
		}

		center := math.Vec3{X: r.Sphere.Center[0], Y: r.Sphere.Center[1], Z: r.Sphere.Center[2]}
		set.Meshlets[i] = meshlet.Meshlet{
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Sphere:    meshlet.Sphere{Center: center, Radius: r.Sphere.Radius},
			Cone: meshlet.Cone{
				Apex:   center,
				Axis:   math.Vec3{X: r.Cone[0], Y: r.Cone[1], Z: r.Cone[2]},
				Cutoff: r.Cone[3],
			},
		}
	}
	return set, nil
}

// ParseMeshletJSONFile reads and parses a meshlets.json file from disk.
func ParseMeshletJSONFile(path string) (*meshlet.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading meshlet JSON file: %w", err)
	}
	return ParseMeshletJSON(data)
}

// WriteMeshletJSONFile encodes the set and writes it to disk.
func WriteMeshletJSONFile(path string, set *meshlet.Set) error {
	data, err := MarshalMeshletJSON(set)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing meshlet JSON file: %w", err)
	}
	return nil
}
