package contracts

import (
	"fmt"
	"strings"
)

// ElementType ordinals match the LERC dt_* codes and the raw dump type tag.
type ElementType int32

const (
	ElementUnknown ElementType = -1
	Int8           ElementType = 0
	Uint8          ElementType = 1
	Int16          ElementType = 2
	Uint16         ElementType = 3
	Int32          ElementType = 4
	Uint32         ElementType = 5
	Float32        ElementType = 6
	// Float64 is never produced by the type mapper. It only exists so a
	// buffer can declare it and be refused.
	Float64 ElementType = 7
)

var elementNames = map[ElementType]string{
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Float32: "float32",
	Float64: "float64",
}

func (t ElementType) String() string {
	if name, ok := elementNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int32(t))
}

// Size returns the sample width in bytes, 0 for unknown types.
func (t ElementType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Supported reports whether the type may be handed to the encoder.
func (t ElementType) Supported() bool {
	return t >= Int8 && t <= Float32
}

func (t ElementType) Signed() bool {
	switch t {
	case Int8, Int16, Int32, Float32, Float64:
		return true
	}
	return false
}

// ParseElementType accepts the names printed by String plus "auto" and "",
// which both yield ElementUnknown.
func ParseElementType(s string) (ElementType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "auto" {
		return ElementUnknown, nil
	}
	for t, n := range elementNames {
		if n == name {
			return t, nil
		}
	}
	return ElementUnknown, fmt.Errorf("%w: unknown data type %q", ErrConfig, s)
}

type RasterBuffer struct {
	Pixels []byte
	Width  int
	Height int
	Bands  int
	// Stride is the scanline size in bytes as declared by the source file.
	Stride int
	Type   ElementType
	// Planar is set when every band is stored as its own plane.
	Planar bool
	// DimsHint carries the XResolution tag when present. Nothing depends on it.
	DimsHint float64
}

func (r *RasterBuffer) ByteLen() int {
	return len(r.Pixels)
}

// ExpectedLen is width x height x bands x sample size.
func (r *RasterBuffer) ExpectedLen() int {
	return r.Width * r.Height * r.Bands * r.Type.Size()
}

// Rows is the number of scanlines the buffer holds.
func (r *RasterBuffer) Rows() int {
	if r.Planar {
		return r.Height * r.Bands
	}
	return r.Height
}

type EncodeRequest struct {
	Raster    *RasterBuffer
	MaxZError float64
	Bands     int
	// UseMask is always false: every pixel is valid.
	UseMask bool
}

type EncodedBlob struct {
	Data []byte
}

func (b EncodedBlob) Len() int {
	return len(b.Data)
}
