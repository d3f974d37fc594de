package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

// OMLT format errors.
var (
	ErrInvalidOMLTMagic       = errors.New("invalid OMLT magic: expected 'OMLT'")
	ErrUnsupportedOMLTVersion = errors.New("unsupported OMLT version")
	ErrTruncatedOMLTData      = errors.New("truncated OMLT data")
)

const (
	omltMagic        = "OMLT"
	omltVersionMajor = 1
	omltVersionMinor = 0

	// magic + version + three uint32 counts.
	omltHeaderSize = 4 + 2 + 12
	// Four uint32 fields plus two float4s per descriptor.
	omltDescriptorSize = 48
)

// OMLTVersion represents the OMLT container version.
type OMLTVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v OMLTVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// OMLT represents a parsed packed-meshlet container. The layout is the
// renderer's upload format: a little-endian header, the descriptor table,
// the shared vertex index buffer, then the uint8 triangle corner buffer.
type OMLT struct {
	Version OMLTVersion
	Packed  *meshlet.Packed
}

// MarshalOMLT encodes packed meshlet buffers as an OMLT container.
func MarshalOMLT(p *meshlet.Packed) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(omltMagic)
	buf.WriteByte(omltVersionMajor)
	buf.WriteByte(omltVersionMinor)
	binary.Write(buf, binary.LittleEndian, uint32(len(p.Descriptors)))
	binary.Write(buf, binary.LittleEndian, uint32(len(p.VertexIndices)))
	binary.Write(buf, binary.LittleEndian, uint32(len(p.TriangleIndices)))
	binary.Write(buf, binary.LittleEndian, p.Descriptors)
	binary.Write(buf, binary.LittleEndian, p.VertexIndices)
	buf.Write(p.TriangleIndices)
	return buf.Bytes()
}

// ParseOMLT parses an OMLT container from raw bytes.
func ParseOMLT(data []byte) (*OMLT, error) {
	if len(data) < omltHeaderSize {
		return nil, ErrTruncatedOMLTData
	}
	if string(data[0:4]) != omltMagic {
		return nil, ErrInvalidOMLTMagic
	}

	version := OMLTVersion{Major: data[4], Minor: data[5]}
	if version.Major != omltVersionMajor {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOMLTVersion, version)
	}

	r := bytes.NewReader(data[6:])
	var meshletCount, vertexCount, cornerCount uint32
	if err := binary.Read(r, binary.LittleEndian, &meshletCount); err != nil {
		return nil, fmt.Errorf("%w: reading meshlet count", ErrTruncatedOMLTData)
	}
	if err := binary.Read(r, binary.LittleEndian, &vertexCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertex index count", ErrTruncatedOMLTData)
	}
	if err := binary.Read(r, binary.LittleEndian, &cornerCount); err != nil {
		return nil, fmt.Errorf("%w: reading triangle corner count", ErrTruncatedOMLTData)
	}

	// Size check before allocating, so a corrupt header cannot demand
	// more memory than the file could back.
	need := int64(meshletCount)*omltDescriptorSize + int64(vertexCount)*4 + int64(cornerCount)
	if int64(r.Len()) < need {
		return nil, fmt.Errorf("%w: %d payload bytes for counts %d/%d/%d", ErrTruncatedOMLTData, r.Len(), meshletCount, vertexCount, cornerCount)
	}

	packed := &meshlet.Packed{
		Descriptors:     make([]meshlet.Descriptor, meshletCount),
		VertexIndices:   make([]uint32, vertexCount),
		TriangleIndices: make([]uint8, cornerCount),
	}
	if err := binary.Read(r, binary.LittleEndian, packed.Descriptors); err != nil {
		return nil, fmt.Errorf("%w: reading descriptors", ErrTruncatedOMLTData)
	}
	if err := binary.Read(r, binary.LittleEndian, packed.VertexIndices); err != nil {
		return nil, fmt.Errorf("%w: reading vertex indices", ErrTruncatedOMLTData)
	}
	if _, err := io.ReadFull(r, packed.TriangleIndices); err != nil {
		return nil, fmt.Errorf("%w: reading triangle corners", ErrTruncatedOMLTData)
	}

	return &OMLT{Version: version, Packed: packed}, nil
}

// ParseOMLTFile parses an OMLT container from disk.
func ParseOMLTFile(path string) (*OMLT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OMLT file: %w", err)
	}
	return ParseOMLT(data)
}

// WriteOMLTFile encodes the packed buffers and writes them to disk.
func WriteOMLTFile(path string, p *meshlet.Packed) error {
	if err := os.WriteFile(path, MarshalOMLT(p), 0o644); err != nil {
		return fmt.Errorf("writing OMLT file: %w", err)
	}
	return nil
}
