package tiff_reader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	gtiff "github.com/google/tiff"

	"tiff2lerc/contracts"
)

type RasterBuffer = contracts.RasterBuffer

// maxRasterBytes keeps buffers addressable by the codec's 32-bit sizes.
const maxRasterBytes = math.MaxUint32

type ReadOptions struct {
	// ForceType replaces the derived element type when set.
	ForceType   *contracts.ElementType
	TreatSigned bool
}

// Metadata is what the reader needs from the first IFD.
type Metadata struct {
	Order           binary.ByteOrder
	StripOffsets    []uint64
	StripByteCounts []uint64
	Width           int
	Height          int
	SamplesPerPixel int
	RowsPerStrip    int
	BitsPerSample   uint16
	Compression     uint16
	SampleFormat    SampleFormat
	Planar          bool
}

// File is an open TIFF whose metadata has been parsed but whose pixels have
// not been read yet.
type File struct {
	f    *os.File
	path string
	meta Metadata
}

// Open opens path and parses its first IFD. The caller must Close the File.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", contracts.ErrIO, path, err)
	}
	meta, err := parseMetadata(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, path: path, meta: meta}, nil
}

func (t *File) Close() error {
	if t == nil || t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

func (t *File) Metadata() Metadata {
	return t.meta
}

// ResolveType maps the file's sample tags to an element type.
func (t *File) ResolveType(opts ReadOptions) (ElementType, error) {
	return resolveType(t.meta.SampleFormat, t.meta.BitsPerSample, opts)
}

// ReadRaster reads every scanline into one buffer, row by row, keeping the
// scanline stride the file declares.
func (t *File) ReadRaster(elem ElementType) (*RasterBuffer, error) {
	m := t.meta
	size := elem.Size()
	if size == 0 || size*8 != int(m.BitsPerSample) {
		return nil, fmt.Errorf("%w: element type %s does not match %d bits per sample", contracts.ErrFormat, elem, m.BitsPerSample)
	}

	stride := m.Width * size
	planes := 1
	if m.Planar {
		planes = m.SamplesPerPixel
	} else {
		stride *= m.SamplesPerPixel
	}
	rows := m.Height * planes
	total := uint64(stride) * uint64(rows)
	if total > maxRasterBytes {
		return nil, fmt.Errorf("%w: raster of %d bytes is too large", contracts.ErrFormat, total)
	}
	if len(m.StripOffsets) == 0 {
		return nil, fmt.Errorf("%w: %s has no readable scanlines", contracts.ErrIO, t.path)
	}

	rps := m.RowsPerStrip
	if rps <= 0 || rps > m.Height {
		rps = m.Height
	}
	stripsPerPlane := (m.Height + rps - 1) / rps
	if len(m.StripOffsets) < stripsPerPlane*planes {
		return nil, fmt.Errorf("%w: %d strips present, %d required", contracts.ErrFormat, len(m.StripOffsets), stripsPerPlane*planes)
	}

	data := make([]byte, int(total))
	for plane := 0; plane < planes; plane++ {
		for row := 0; row < m.Height; row++ {
			strip := plane*stripsPerPlane + row/rps
			rowInStrip := row % rps
			if len(m.StripByteCounts) > strip && m.StripByteCounts[strip] < uint64((rowInStrip+1)*stride) {
				return nil, fmt.Errorf("%w: strip %d of %s is shorter than its scanlines", contracts.ErrIO, strip, t.path)
			}
			dst := (plane*m.Height + row) * stride
			off := int64(m.StripOffsets[strip]) + int64(rowInStrip*stride)
			if _, err := t.f.ReadAt(data[dst:dst+stride], off); err != nil {
				if errors.Is(err, io.EOF) {
					return nil, fmt.Errorf("%w: scanline %d of %s is truncated", contracts.ErrIO, row, t.path)
				}
				return nil, fmt.Errorf("%w: read scanline %d of %s: %v", contracts.ErrIO, row, t.path, err)
			}
		}
	}

	if isBigEndian(m.Order) {
		swapToLittleEndian(data, size)
	}

	return &RasterBuffer{
		Pixels: data,
		Width:  m.Width,
		Height: m.Height,
		Bands:  m.SamplesPerPixel,
		Stride: stride,
		Type:   elem,
		Planar: m.Planar && m.SamplesPerPixel > 1,
	}, nil
}

// Read opens path, resolves its element type and reads the whole raster.
// No pixel is read when the type cannot be resolved.
func Read(path string, opts ReadOptions) (*RasterBuffer, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	elem, err := f.ResolveType(opts)
	if err != nil {
		return nil, err
	}
	return f.ReadRaster(elem)
}

func parseMetadata(r gtiff.ReadAtReadSeeker) (Metadata, error) {
	parsed, err := gtiff.Parse(r, nil, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: parse TIFF: %v", contracts.ErrFormat, err)
	}
	ifds := parsed.IFDs()
	if len(ifds) == 0 {
		return Metadata{}, fmt.Errorf("%w: TIFF has no image directory", contracts.ErrFormat)
	}
	ifd := ifds[0]

	m := Metadata{
		Order:           binary.LittleEndian,
		SamplesPerPixel: 1,
		Compression:     cNone,
		SampleFormat:    SampleFormatUint,
		BitsPerSample:   1,
	}

	width, err := requiredUint(ifd, tImageWidth, "ImageWidth")
	if err != nil {
		return m, err
	}
	height, err := requiredUint(ifd, tImageLength, "ImageLength")
	if err != nil {
		return m, err
	}
	if width == 0 || height == 0 {
		return m, fmt.Errorf("%w: invalid dimensions %dx%d", contracts.ErrFormat, width, height)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return m, fmt.Errorf("%w: dimensions %dx%d out of range", contracts.ErrFormat, width, height)
	}
	m.Width = int(width)
	m.Height = int(height)
	m.Order = ifd.GetField(tImageWidth).Value().Order()

	if ifd.HasField(tTileWidth) {
		return m, fmt.Errorf("%w: tiled TIFF is not supported", contracts.ErrFormat)
	}

	if v, ok, err := optionalUint(ifd, tCompression); err != nil {
		return m, err
	} else if ok {
		m.Compression = uint16(v)
	}
	if m.Compression != cNone {
		return m, fmt.Errorf("%w: compression %d is not supported, only uncompressed TIFF", contracts.ErrFormat, m.Compression)
	}

	if v, ok, err := optionalUint(ifd, tSamplesPerPixel); err != nil {
		return m, err
	} else if ok {
		if v == 0 || v > math.MaxUint16 {
			return m, fmt.Errorf("%w: invalid SamplesPerPixel %d", contracts.ErrFormat, v)
		}
		m.SamplesPerPixel = int(v)
	}

	if bits, ok, err := fieldUints(ifd, tBitsPerSample); err != nil {
		return m, err
	} else if ok && len(bits) > 0 {
		for _, b := range bits[1:] {
			if b != bits[0] {
				return m, fmt.Errorf("%w: mixed BitsPerSample %v", contracts.ErrFormat, bits)
			}
		}
		m.BitsPerSample = uint16(bits[0])
	}

	if v, ok, err := optionalUint(ifd, tSampleFormat); err != nil {
		return m, err
	} else if ok {
		m.SampleFormat = SampleFormat(v)
	} else if v, ok, err := optionalUint(ifd, tDataType); err != nil {
		return m, err
	} else if ok {
		m.SampleFormat = sampleFormatFromLegacy(v)
	}

	if v, ok, err := optionalUint(ifd, tPlanarConfiguration); err != nil {
		return m, err
	} else if ok {
		switch v {
		case planarContig:
		case planarSeparate:
			m.Planar = true
		default:
			return m, fmt.Errorf("%w: invalid PlanarConfiguration %d", contracts.ErrFormat, v)
		}
	}

	m.RowsPerStrip = m.Height
	if v, ok, err := optionalUint(ifd, tRowsPerStrip); err != nil {
		return m, err
	} else if ok && v > 0 && v < uint64(m.Height) {
		m.RowsPerStrip = int(v)
	}

	if m.StripOffsets, _, err = fieldUints(ifd, tStripOffsets); err != nil {
		return m, err
	}
	if m.StripByteCounts, _, err = fieldUints(ifd, tStripByteCounts); err != nil {
		return m, err
	}
	return m, nil
}

func requiredUint(ifd gtiff.IFD, tag uint16, name string) (uint64, error) {
	v, ok, err := optionalUint(ifd, tag)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing %s tag", contracts.ErrFormat, name)
	}
	return v, nil
}

func optionalUint(ifd gtiff.IFD, tag uint16) (uint64, bool, error) {
	values, ok, err := fieldUints(ifd, tag)
	if err != nil || !ok {
		return 0, false, err
	}
	if len(values) == 0 {
		return 0, false, nil
	}
	return values[0], true, nil
}

// fieldUints decodes an unsigned integer field of any width.
func fieldUints(ifd gtiff.IFD, tag uint16) ([]uint64, bool, error) {
	if !ifd.HasField(tag) {
		return nil, false, nil
	}
	field := ifd.GetField(tag)
	value := field.Value()
	raw := value.Bytes()
	order := value.Order()

	var width int
	switch field.Type().ID() {
	case dtByte:
		width = 1
	case dtShort:
		width = 2
	case dtLong:
		width = 4
	case dtLong8:
		width = 8
	default:
		return nil, true, fmt.Errorf("%w: tag %d has non-integer type %d", contracts.ErrFormat, tag, field.Type().ID())
	}

	// Inline values arrive as the whole 4-byte slot.
	if n := int(field.Count()) * width; n < len(raw) {
		raw = raw[:n]
	}
	out := make([]uint64, 0, len(raw)/width)
	for i := 0; i+width <= len(raw); i += width {
		switch width {
		case 1:
			out = append(out, uint64(raw[i]))
		case 2:
			out = append(out, uint64(order.Uint16(raw[i:])))
		case 4:
			out = append(out, uint64(order.Uint32(raw[i:])))
		case 8:
			out = append(out, order.Uint64(raw[i:]))
		}
	}
	return out, true, nil
}

func isBigEndian(order binary.ByteOrder) bool {
	return order != nil && order.String() == binary.BigEndian.String()
}

func swapToLittleEndian(data []byte, size int) {
	if size < 2 {
		return
	}
	for i := 0; i+size <= len(data); i += size {
		for a, b := i, i+size-1; a < b; a, b = a+1, b-1 {
			data[a], data[b] = data[b], data[a]
		}
	}
}
