package raw_writer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"tiff2lerc/contracts"
)

type RasterBuffer = contracts.RasterBuffer

// HeaderSize is the fixed size of the raw dump header in bytes.
const HeaderSize = 20

// Header precedes the pixel payload of a raw dump, little-endian, in field order.
type Header struct {
	Width      uint32
	Height     uint32
	Type       int32
	PayloadLen uint32
	Bands      uint32
}

type RawWriter struct {
	bw *bufio.Writer
	cw *countingWriter
}

type countingWriter struct {
	w      io.Writer
	offset int64
}

func (cw *countingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	cw.offset += int64(n)
	return n, err
}

func NewRawWriter(dst io.Writer) *RawWriter {
	cw := &countingWriter{w: dst}
	return &RawWriter{
		cw: cw,
		bw: bufio.NewWriterSize(cw, 1024*1024),
	}
}

// HeaderFor builds the header for r. Bands overrides r.Bands when > 0.
func HeaderFor(r *RasterBuffer, bands int) (Header, error) {
	if r == nil {
		return Header{}, fmt.Errorf("%w: nil raster", contracts.ErrFormat)
	}
	if bands <= 0 {
		bands = r.Bands
	}
	if r.Width <= 0 || r.Height <= 0 || bands <= 0 {
		return Header{}, fmt.Errorf("%w: invalid raster %dx%d with %d bands", contracts.ErrFormat, r.Width, r.Height, bands)
	}
	if uint64(r.ByteLen()) > math.MaxUint32 {
		return Header{}, fmt.Errorf("%w: payload of %d bytes does not fit the header", contracts.ErrFormat, r.ByteLen())
	}
	return Header{
		Width:      uint32(r.Width),
		Height:     uint32(r.Height),
		Type:       int32(r.Type),
		PayloadLen: uint32(r.ByteLen()),
		Bands:      uint32(bands),
	}, nil
}

func (h Header) MarshalBinary() ([]byte, error) {
	out := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(out[0:], h.Width)
	binary.LittleEndian.PutUint32(out[4:], h.Height)
	binary.LittleEndian.PutUint32(out[8:], uint32(h.Type))
	binary.LittleEndian.PutUint32(out[12:], h.PayloadLen)
	binary.LittleEndian.PutUint32(out[16:], h.Bands)
	return out, nil
}

func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("%w: read raw header: %v", contracts.ErrIO, err)
	}
	return Header{
		Width:      binary.LittleEndian.Uint32(buf[0:]),
		Height:     binary.LittleEndian.Uint32(buf[4:]),
		Type:       int32(binary.LittleEndian.Uint32(buf[8:])),
		PayloadLen: binary.LittleEndian.Uint32(buf[12:]),
		Bands:      binary.LittleEndian.Uint32(buf[16:]),
	}, nil
}

// WriteRaster writes the header followed by the pixel bytes verbatim.
func (rw *RawWriter) WriteRaster(r *RasterBuffer, bands int) error {
	h, err := HeaderFor(r, bands)
	if err != nil {
		return err
	}
	head, _ := h.MarshalBinary()
	if _, err := rw.bw.Write(head); err != nil {
		return fmt.Errorf("%w: write raw header: %v", contracts.ErrIO, err)
	}
	if _, err := rw.bw.Write(r.Pixels); err != nil {
		return fmt.Errorf("%w: write raw payload: %v", contracts.ErrIO, err)
	}
	return nil
}

func (rw *RawWriter) Flush() error {
	if err := rw.bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush raw dump: %v", contracts.ErrIO, err)
	}
	return nil
}

// Written is the number of bytes handed to the destination so far,
// including what is still buffered.
func (rw *RawWriter) Written() int64 {
	return rw.cw.offset + int64(rw.bw.Buffered())
}
