// Package testsupport builds TIFF files for tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/tiff"
)

// Fixture describes an uncompressed strip TIFF. Pixels holds little-endian
// samples in file order (plane by plane when Planar).
type Fixture struct {
	Pixels          []byte
	Width           int
	Height          int
	SamplesPerPixel int
	BitsPerSample   int
	// SampleFormat is omitted from the file when 0.
	SampleFormat int
	// LegacyDataType writes the SGI DataType tag when set.
	LegacyDataType *int
	RowsPerStrip   int
	Compression    int
	XResolution    uint32
	Planar         bool
	BigEndian      bool
	Tiled          bool
	// OmitWidth drops the ImageWidth tag.
	OmitWidth bool
}

const (
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

type entry struct {
	tag    uint16
	typ    uint16
	values []uint32
}

func (e entry) size() int {
	if e.typ == typeShort {
		return 2 * len(e.values)
	}
	return 4 * len(e.values)
}

func (e entry) count() uint32 {
	if e.typ == typeRational {
		return uint32(len(e.values) / 2)
	}
	return uint32(len(e.values))
}

// Encode serializes the fixture: header, pixel strips, then the IFD.
func (fx Fixture) Encode() ([]byte, error) {
	spp := fx.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	bits := fx.BitsPerSample
	if bits == 0 {
		bits = 8
	}
	sampleSize := bits / 8
	if sampleSize == 0 {
		return nil, fmt.Errorf("testsupport: %d bits per sample is not byte aligned", bits)
	}
	planes := 1
	stride := fx.Width * sampleSize * spp
	if fx.Planar {
		planes = spp
		stride = fx.Width * sampleSize
	}
	rps := fx.RowsPerStrip
	if rps <= 0 || rps > fx.Height {
		rps = fx.Height
	}

	var order binary.ByteOrder = binary.LittleEndian
	header := []byte("II\x2A\x00")
	if fx.BigEndian {
		order = binary.BigEndian
		header = []byte("MM\x00\x2A")
	}

	pixels := append([]byte(nil), fx.Pixels...)
	if fx.BigEndian && sampleSize > 1 {
		for i := 0; i+sampleSize <= len(pixels); i += sampleSize {
			for a, b := i, i+sampleSize-1; a < b; a, b = a+1, b-1 {
				pixels[a], pixels[b] = pixels[b], pixels[a]
			}
		}
	}

	var offsets, counts []uint32
	pos := 8
	for plane := 0; plane < planes; plane++ {
		for row := 0; row < fx.Height; row += rps {
			n := rps
			if row+n > fx.Height {
				n = fx.Height - row
			}
			offsets = append(offsets, uint32(pos))
			counts = append(counts, uint32(n*stride))
			pos += n * stride
		}
	}
	if pos-8 > len(pixels) {
		pixels = append(pixels, make([]byte, pos-8-len(pixels))...)
	}

	compression := fx.Compression
	if compression == 0 {
		compression = 1
	}
	planar := 1
	if fx.Planar {
		planar = 2
	}

	entries := []entry{
		{tag: 257, typ: typeLong, values: []uint32{uint32(fx.Height)}},
		{tag: 258, typ: typeShort, values: repeat(uint32(bits), spp)},
		{tag: 259, typ: typeShort, values: []uint32{uint32(compression)}},
		{tag: 262, typ: typeShort, values: []uint32{1}},
		{tag: 273, typ: typeLong, values: offsets},
		{tag: 277, typ: typeShort, values: []uint32{uint32(spp)}},
		{tag: 278, typ: typeLong, values: []uint32{uint32(rps)}},
		{tag: 279, typ: typeLong, values: counts},
		{tag: 284, typ: typeShort, values: []uint32{uint32(planar)}},
	}
	if !fx.OmitWidth {
		entries = append(entries, entry{tag: 256, typ: typeLong, values: []uint32{uint32(fx.Width)}})
	}
	if fx.XResolution != 0 {
		entries = append(entries, entry{tag: 282, typ: typeRational, values: []uint32{fx.XResolution, 1}})
	}
	if fx.Tiled {
		entries = append(entries, entry{tag: 322, typ: typeLong, values: []uint32{16}})
	}
	if fx.SampleFormat != 0 {
		entries = append(entries, entry{tag: 339, typ: typeShort, values: repeat(uint32(fx.SampleFormat), spp)})
	}
	if fx.LegacyDataType != nil {
		entries = append(entries, entry{tag: 32996, typ: typeShort, values: []uint32{uint32(*fx.LegacyDataType)}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	ifdOffset := 8 + len(pixels)
	if ifdOffset%2 == 1 {
		pixels = append(pixels, 0)
		ifdOffset++
	}
	extraOffset := ifdOffset + 2 + 12*len(entries) + 4

	var buf bytes.Buffer
	buf.Write(header)
	writeUint32(&buf, order, uint32(ifdOffset))
	buf.Write(pixels)

	var extra bytes.Buffer
	writeUint16(&buf, order, uint16(len(entries)))
	for _, e := range entries {
		writeUint16(&buf, order, e.tag)
		writeUint16(&buf, order, e.typ)
		writeUint32(&buf, order, e.count())

		var payload bytes.Buffer
		for _, v := range e.values {
			if e.typ == typeShort {
				writeUint16(&payload, order, uint16(v))
			} else {
				writeUint32(&payload, order, v)
			}
		}
		if e.size() <= 4 {
			field := make([]byte, 4)
			copy(field, payload.Bytes())
			buf.Write(field)
			continue
		}
		writeUint32(&buf, order, uint32(extraOffset+extra.Len()))
		extra.Write(payload.Bytes())
		if extra.Len()%2 == 1 {
			extra.WriteByte(0)
		}
	}
	writeUint32(&buf, order, 0)
	buf.Write(extra.Bytes())
	return buf.Bytes(), nil
}

// WriteTIFF encodes fx to path, creating parent directories.
func WriteTIFF(path string, fx Fixture) error {
	data, err := fx.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteImage writes img as an uncompressed TIFF with the x/image encoder.
// Gray images become 8-bit single band files, Gray16 16-bit.
func WriteImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Uint16Pixels packs values as little-endian samples.
func Uint16Pixels(values ...uint16) []byte {
	out := make([]byte, 0, 2*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

func Int32Pixels(values ...int32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out
}

func Float32Pixels(values ...float32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func repeat(v uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func writeUint16(buf *bytes.Buffer, order binary.ByteOrder, v uint16) {
	var b [2]byte
	order.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	buf.Write(b[:])
}
