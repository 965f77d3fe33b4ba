package raw_writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiff2lerc/contracts"
)

func TestWriteRasterUint16(t *testing.T) {
	payload := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	raster := &RasterBuffer{
		Pixels: payload,
		Width:  2,
		Height: 2,
		Bands:  1,
		Stride: 4,
		Type:   contracts.Uint16,
	}

	var buf bytes.Buffer
	rw := NewRawWriter(&buf)
	require.NoError(t, rw.WriteRaster(raster, 1))
	assert.Equal(t, int64(HeaderSize+len(payload)), rw.Written())
	require.NoError(t, rw.Flush())

	want := []byte{
		2, 0, 0, 0, // width
		2, 0, 0, 0, // height
		3, 0, 0, 0, // uint16
		8, 0, 0, 0, // payload length
		1, 0, 0, 0, // bands
	}
	want = append(want, payload...)
	assert.Equal(t, want, buf.Bytes())

	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Header{Width: 2, Height: 2, Type: int32(contracts.Uint16), PayloadLen: 8, Bands: 1}, h)
}

func TestWriteRasterDefaultsBandsFromRaster(t *testing.T) {
	raster := &RasterBuffer{Pixels: make([]byte, 12), Width: 2, Height: 2, Bands: 3, Type: contracts.Uint8}
	h, err := HeaderFor(raster, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), h.Bands)
	assert.Equal(t, uint32(12), h.PayloadLen)
}

func TestWriteRasterRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	rw := NewRawWriter(&buf)
	err := rw.WriteRaster(&RasterBuffer{Type: contracts.Uint8, Bands: 1}, 1)
	assert.ErrorIs(t, err, contracts.ErrFormat)
	require.NoError(t, rw.Flush())
	assert.Zero(t, buf.Len())
}

func TestReadHeaderShort(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, contracts.ErrIO)
}
