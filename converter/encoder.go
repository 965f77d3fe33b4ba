package converter

import (
	"fmt"
	"math"

	"tiff2lerc/contracts"
)

type RasterBuffer = contracts.RasterBuffer
type EncodeRequest = contracts.EncodeRequest
type EncodedBlob = contracts.EncodedBlob

// Encoder adapts a raster buffer to the two-phase LERC codec protocol:
// compute the blob size, allocate exactly that, encode, keep only the bytes
// the codec reports as written.
type Encoder struct {
	codec contracts.Codec
}

func NewEncoder(codec contracts.Codec) *Encoder {
	return &Encoder{codec: codec}
}

// Params maps a raster to codec parameters. Interleaved multi-band pixels
// become LERC depth, planar ones LERC bands.
func Params(r *RasterBuffer, bands int, maxZError float64) contracts.CodecParams {
	p := contracts.CodecParams{
		DataType:  r.Type,
		Depth:     1,
		Cols:      r.Width,
		Rows:      r.Height,
		Bands:     bands,
		MaxZError: maxZError,
	}
	if !r.Planar && bands > 1 {
		p.Depth = bands
		p.Bands = 1
	}
	return p
}

func validate(req EncodeRequest) (int, error) {
	r := req.Raster
	if r == nil {
		return 0, fmt.Errorf("%w: no raster to encode", contracts.ErrFormat)
	}
	if !r.Type.Supported() {
		return 0, fmt.Errorf("%w: element type %s cannot be encoded", contracts.ErrFormat, r.Type)
	}
	bands := req.Bands
	if bands == 0 {
		bands = r.Bands
	}
	if bands < 1 {
		return 0, fmt.Errorf("%w: band count %d", contracts.ErrFormat, bands)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return 0, fmt.Errorf("%w: invalid dimensions %dx%d", contracts.ErrFormat, r.Width, r.Height)
	}
	if math.IsNaN(req.MaxZError) || math.IsInf(req.MaxZError, 0) || req.MaxZError < 0 {
		return 0, fmt.Errorf("%w: max z error must be a finite value >= 0, got %v", contracts.ErrFormat, req.MaxZError)
	}
	if req.UseMask {
		return 0, fmt.Errorf("%w: valid pixel masks are not supported", contracts.ErrFormat)
	}
	need := uint64(r.Width) * uint64(r.Height) * uint64(bands) * uint64(r.Type.Size())
	if uint64(len(r.Pixels)) < need {
		return 0, fmt.Errorf("%w: buffer holds %d bytes, %dx%d with %d bands of %s needs %d",
			contracts.ErrFormat, len(r.Pixels), r.Width, r.Height, bands, r.Type, need)
	}
	return bands, nil
}

// Encode compresses req.Raster. Unsupported input is refused before the
// codec is called; the raster is never modified.
func (e *Encoder) Encode(req EncodeRequest) (EncodedBlob, error) {
	bands, err := validate(req)
	if err != nil {
		return EncodedBlob{}, err
	}
	params := Params(req.Raster, bands, req.MaxZError)

	size, err := e.codec.ComputeCompressedSize(req.Raster.Pixels, params)
	if err != nil {
		return EncodedBlob{}, fmt.Errorf("%w: compute blob size: %v", contracts.ErrEncode, err)
	}
	if size <= 0 {
		return EncodedBlob{}, fmt.Errorf("%w: codec reported blob size %d", contracts.ErrEncode, size)
	}

	out := make([]byte, size)
	written, err := e.codec.Encode(req.Raster.Pixels, params, out)
	if err != nil {
		return EncodedBlob{}, fmt.Errorf("%w: %v", contracts.ErrEncode, err)
	}
	if written <= 0 || written > size {
		return EncodedBlob{}, fmt.Errorf("%w: codec wrote %d bytes into a %d byte buffer", contracts.ErrEncode, written, size)
	}
	return EncodedBlob{Data: out[:written:written]}, nil
}

// Decode expands blob into a buffer shaped like r with the given band count.
func (e *Encoder) Decode(blob []byte, r *RasterBuffer, bands int) ([]byte, error) {
	if bands == 0 {
		bands = r.Bands
	}
	out, err := e.codec.Decode(blob, Params(r, bands, 0))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", contracts.ErrEncode, err)
	}
	return out, nil
}

// BlobInfo reads the header of an encoded blob.
func (e *Encoder) BlobInfo(blob []byte) (contracts.BlobInfo, error) {
	info, err := e.codec.BlobInfo(blob)
	if err != nil {
		return info, fmt.Errorf("%w: blob info: %v", contracts.ErrEncode, err)
	}
	return info, nil
}
