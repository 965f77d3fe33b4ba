//go:build cgo

package lerc_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiff2lerc/contracts"
	"tiff2lerc/converter"
	"tiff2lerc/lerc"
	"tiff2lerc/testsupport"
)

func roundTrip(t *testing.T, r *contracts.RasterBuffer, maxZError float64) ([]byte, []byte) {
	t.Helper()
	enc := converter.NewEncoder(lerc.New())
	blob, err := enc.Encode(contracts.EncodeRequest{Raster: r, MaxZError: maxZError})
	require.NoError(t, err)
	require.Positive(t, blob.Len())
	decoded, err := enc.Decode(blob.Data, r, r.Bands)
	require.NoError(t, err)
	return blob.Data, decoded
}

func TestAllZeroUint8(t *testing.T) {
	r := &contracts.RasterBuffer{Pixels: make([]byte, 16), Width: 4, Height: 4, Bands: 1, Stride: 4, Type: contracts.Uint8}
	_, decoded := roundTrip(t, r, 0)
	assert.Equal(t, make([]byte, 16), decoded)
}

func TestLosslessIntegerTypes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, typ := range []contracts.ElementType{
		contracts.Int8, contracts.Uint8, contracts.Int16, contracts.Uint16, contracts.Int32, contracts.Uint32,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			pixels := make([]byte, 16*8*typ.Size())
			rng.Read(pixels)
			r := &contracts.RasterBuffer{Pixels: pixels, Width: 16, Height: 8, Bands: 1, Stride: 16 * typ.Size(), Type: typ}
			_, decoded := roundTrip(t, r, 0)
			assert.Equal(t, pixels, decoded)
		})
	}
}

func TestFloat32WithinTolerance(t *testing.T) {
	values := make([]float32, 32*32)
	for i := range values {
		values[i] = float32(math.Sin(float64(i)/17) * 1000)
	}
	r := &contracts.RasterBuffer{
		Pixels: testsupport.Float32Pixels(values...), Width: 32, Height: 32, Bands: 1, Stride: 128, Type: contracts.Float32,
	}
	const eps = 0.5
	_, decoded := roundTrip(t, r, eps)
	idx, diff, ok := converter.CheckTolerance(r.Pixels, decoded, contracts.Float32, eps)
	assert.True(t, ok, "sample %d off by %g", idx, diff)
}

func TestEncodeIsDeterministic(t *testing.T) {
	r := &contracts.RasterBuffer{
		Pixels: testsupport.Uint16Pixels(1, 500, 3, 40000, 5, 6), Width: 3, Height: 2, Bands: 1, Stride: 6, Type: contracts.Uint16,
	}
	first, _ := roundTrip(t, r, 0)
	second, _ := roundTrip(t, r, 0)
	assert.Equal(t, first, second)
}

func TestSinglePixel(t *testing.T) {
	r := &contracts.RasterBuffer{
		Pixels: testsupport.Int32Pixels(-123456), Width: 1, Height: 1, Bands: 1, Stride: 4, Type: contracts.Int32,
	}
	_, decoded := roundTrip(t, r, 0)
	assert.Equal(t, r.Pixels, decoded)
}

func TestInterleavedBands(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	r := &contracts.RasterBuffer{Pixels: pixels, Width: 2, Height: 2, Bands: 3, Stride: 6, Type: contracts.Uint8}
	blob, decoded := roundTrip(t, r, 0)
	assert.Equal(t, pixels, decoded)

	info, err := lerc.New().BlobInfo(blob)
	require.NoError(t, err)
	assert.Equal(t, contracts.Uint8, info.DataType)
	assert.Equal(t, 3, info.Depth)
	assert.Equal(t, 2, info.Cols)
	assert.Equal(t, 2, info.Rows)
	assert.Equal(t, 1, info.Bands)
	assert.Equal(t, len(blob), info.BlobSize)
	assert.Equal(t, 1.0, info.ZMin)
	assert.Equal(t, 12.0, info.ZMax)
}

func TestBlobInfoRejectsGarbage(t *testing.T) {
	_, err := lerc.New().BlobInfo([]byte("definitely not lerc"))
	var status *lerc.StatusError
	assert.ErrorAs(t, err, &status)
}
