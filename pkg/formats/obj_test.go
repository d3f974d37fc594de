package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
)

const triangleOBJ = `# a single triangle with full attributes
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`

func TestParseOBJ_Triangle(t *testing.T) {
	obj, err := ParseOBJ([]byte(triangleOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(obj.Positions))
	}
	if len(obj.Normals) != 1 {
		t.Errorf("expected 1 normal, got %d", len(obj.Normals))
	}
	if len(obj.UVs) != 3 {
		t.Errorf("expected 3 UVs, got %d", len(obj.UVs))
	}
	if obj.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", obj.TriangleCount())
	}

	face := obj.Faces[0]
	if face.Position != [3]int{0, 1, 2} {
		t.Errorf("expected positions [0 1 2], got %v", face.Position)
	}
	if face.UV != [3]int{0, 1, 2} {
		t.Errorf("expected UVs [0 1 2], got %v", face.UV)
	}
	if face.Normal != [3]int{0, 0, 0} {
		t.Errorf("expected normals [0 0 0], got %v", face.Normal)
	}
}

func TestParseOBJ_QuadFanTriangulation(t *testing.T) {
	data := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles from a quad, got %d", obj.TriangleCount())
	}
	if obj.Faces[0].Position != [3]int{0, 1, 2} {
		t.Errorf("first triangle = %v, expected [0 1 2]", obj.Faces[0].Position)
	}
	if obj.Faces[1].Position != [3]int{0, 2, 3} {
		t.Errorf("second triangle = %v, expected [0 2 3]", obj.Faces[1].Position)
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	data := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Faces[0].Position != [3]int{0, 1, 2} {
		t.Errorf("expected positions [0 1 2], got %v", obj.Faces[0].Position)
	}
}

func TestParseOBJ_PositionOnlyFace(t *testing.T) {
	data := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	face := obj.Faces[0]
	if face.UV != [3]int{-1, -1, -1} {
		t.Errorf("expected absent UVs (-1), got %v", face.UV)
	}
	if face.Normal != [3]int{-1, -1, -1} {
		t.Errorf("expected absent normals (-1), got %v", face.Normal)
	}
}

func TestParseOBJ_NormalWithoutUV(t *testing.T) {
	data := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	face := obj.Faces[0]
	if face.UV != [3]int{-1, -1, -1} {
		t.Errorf("expected absent UVs, got %v", face.UV)
	}
	if face.Normal != [3]int{0, 0, 0} {
		t.Errorf("expected normals [0 0 0], got %v", face.Normal)
	}
}

func TestParseOBJ_SkipsNonGeometry(t *testing.T) {
	data := `mtllib widget.mtl
o widget
g body
usemtl plastic
s 1
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.TriangleCount())
	}
}

func TestParseOBJ_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"bad float", "v 1.0 oops 2.0\n", ErrMalformedOBJ},
		{"short position", "v 1.0 2.0\n", ErrMalformedOBJ},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformedOBJ},
		{"bad corner", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3/4/5/6\n", ErrMalformedOBJ},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrInvalidOBJIndex},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", ErrInvalidOBJIndex},
		{"negative out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 -2 -1\n", ErrInvalidOBJIndex},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOBJ([]byte(tc.data)); !errors.Is(err, tc.want) {
				t.Errorf("ParseOBJ error = %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestOBJ_BoundingBox(t *testing.T) {
	data := `v -1 2 0
v 3 -4 5
v 0 0 1
`
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	lo, hi := obj.BoundingBox()
	if lo != (math.Vec3{X: -1, Y: -4, Z: 0}) {
		t.Errorf("expected min (-1 -4 0), got %v", lo)
	}
	if hi != (math.Vec3{X: 3, Y: 2, Z: 5}) {
		t.Errorf("expected max (3 2 5), got %v", hi)
	}
}

func TestParseOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	obj, err := ParseOBJFile(path)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if obj.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", obj.TriangleCount())
	}

	if _, err := ParseOBJFile(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
