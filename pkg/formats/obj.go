package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedOBJ    = errors.New("malformed OBJ directive")
	ErrInvalidOBJIndex = errors.New("invalid OBJ face index")
)

// OBJFace is one triangle after fan triangulation. Each corner carries
// 0-based indices into the OBJ attribute arrays; UV and Normal entries
// are -1 when the face did not specify them.
type OBJFace struct {
	Position [3]int
	UV       [3]int
	Normal   [3]int
}

// OBJ represents a parsed Wavefront OBJ model. Only the geometry
// directives are interpreted (v, vt, vn, f); grouping, materials and
// smoothing groups are skipped.
type OBJ struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Faces     []OBJFace
}

// TriangleCount returns the number of triangles after fan triangulation.
func (o *OBJ) TriangleCount() int {
	return len(o.Faces)
}

// BoundingBox returns the axis-aligned bounds of all positions.
func (o *OBJ) BoundingBox() (lo, hi math.Vec3) {
	if len(o.Positions) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	lo, hi = o.Positions[0], o.Positions[0]
	for _, p := range o.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// ParseOBJ parses Wavefront OBJ data. Faces with more than three corners
// are triangulated as a fan around the first corner; 1-based and negative
// (relative) indices are both resolved.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			var v math.Vec3
			if v, err = parseOBJVec3(fields[1:]); err == nil {
				obj.Positions = append(obj.Positions, v)
			}
		case "vn":
			var v math.Vec3
			if v, err = parseOBJVec3(fields[1:]); err == nil {
				obj.Normals = append(obj.Normals, v)
			}
		case "vt":
			var v math.Vec2
			if v, err = parseOBJVec2(fields[1:]); err == nil {
				obj.UVs = append(obj.UVs, v)
			}
		case "f":
			err = obj.appendFace(fields[1:])
		default:
			// o, g, s, usemtl, mtllib and friends carry no geometry.
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}
	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func parseOBJVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: want 3 components, have %d", ErrMalformedOBJ, len(fields))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: %q", ErrMalformedOBJ, fields[i])
		}
		out[i] = float32(f)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func parseOBJVec2(fields []string) (math.Vec2, error) {
	// vt may carry a third component; only u and v are kept.
	if len(fields) < 2 {
		return math.Vec2{}, fmt.Errorf("%w: want 2 components, have %d", ErrMalformedOBJ, len(fields))
	}
	var out [2]float32
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec2{}, fmt.Errorf("%w: %q", ErrMalformedOBJ, fields[i])
		}
		out[i] = float32(f)
	}
	return math.Vec2{X: out[0], Y: out[1]}, nil
}

type objCorner struct {
	pos, uv, norm int
}

// appendFace triangulates one f directive as a fan around its first corner.
func (o *OBJ) appendFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: face with %d corners", ErrMalformedOBJ, len(fields))
	}

	corners := make([]objCorner, len(fields))
	for i, f := range fields {
		c, err := o.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i < len(corners)-1; i++ {
		tri := [3]objCorner{corners[0], corners[i], corners[i+1]}
		face := OBJFace{}
		for k, c := range tri {
			face.Position[k] = c.pos
			face.UV[k] = c.uv
			face.Normal[k] = c.norm
		}
		o.Faces = append(o.Faces, face)
	}
	return nil
}

// parseCorner resolves one face corner of the form v, v/vt, v//vn or
// v/vt/vn against the attribute arrays seen so far.
func (o *OBJ) parseCorner(s string) (objCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return objCorner{}, fmt.Errorf("%w: corner %q", ErrMalformedOBJ, s)
	}

	c := objCorner{uv: -1, norm: -1}
	var err error
	if c.pos, err = resolveOBJIndex(parts[0], len(o.Positions)); err != nil {
		return objCorner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.uv, err = resolveOBJIndex(parts[1], len(o.UVs)); err != nil {
			return objCorner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.norm, err = resolveOBJIndex(parts[2], len(o.Normals)); err != nil {
			return objCorner{}, err
		}
	}
	return c, nil
}

// resolveOBJIndex converts a 1-based (positive) or relative (negative)
// OBJ index into a 0-based slice index against the current array length.
func resolveOBJIndex(s string, length int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedOBJ, s)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += length
	default:
		return 0, fmt.Errorf("%w: index 0", ErrInvalidOBJIndex)
	}
	if n < 0 || n >= length {
		return 0, fmt.Errorf("%w: %s with %d entries", ErrInvalidOBJIndex, s, length)
	}
	return n, nil
}
