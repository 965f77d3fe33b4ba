//go:build cgo
// +build cgo

package lerc

/*
#cgo LDFLAGS: -lLerc

#include <stdlib.h>
#include <Lerc_c_api.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"tiff2lerc/contracts"
)

func checkParams(data []byte, p contracts.CodecParams) error {
	if p.Cols <= 0 || p.Rows <= 0 || p.Depth <= 0 || p.Bands <= 0 {
		return fmt.Errorf("invalid dimensions %dx%dx%d, %d bands", p.Cols, p.Rows, p.Depth, p.Bands)
	}
	need := p.Cols * p.Rows * p.Depth * p.Bands * p.DataType.Size()
	if need == 0 || len(data) < need {
		return fmt.Errorf("pixel buffer holds %d bytes, %d required", len(data), need)
	}
	return nil
}

// ComputeCompressedSize returns the upper bound of the encoded blob size.
func (c *Codec) ComputeCompressedSize(data []byte, p contracts.CodecParams) (int, error) {
	if err := checkParams(data, p); err != nil {
		return 0, err
	}
	var numBytes C.uint
	rc := C.lerc_computeCompressedSize(
		unsafe.Pointer(&data[0]),
		C.uint(p.DataType),
		C.int(p.Depth), C.int(p.Cols), C.int(p.Rows), C.int(p.Bands),
		0, nil,
		C.double(p.MaxZError),
		&numBytes,
	)
	if rc != StatusOK {
		return 0, &StatusError{Op: "lerc_computeCompressedSize", Code: uint32(rc)}
	}
	return int(numBytes), nil
}

// Encode writes the blob into out and returns the number of bytes written.
func (c *Codec) Encode(data []byte, p contracts.CodecParams, out []byte) (int, error) {
	if err := checkParams(data, p); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, &StatusError{Op: "lerc_encode", Code: StatusBufferTooSmall}
	}
	var written C.uint
	rc := C.lerc_encode(
		unsafe.Pointer(&data[0]),
		C.uint(p.DataType),
		C.int(p.Depth), C.int(p.Cols), C.int(p.Rows), C.int(p.Bands),
		0, nil,
		C.double(p.MaxZError),
		(*C.uchar)(unsafe.Pointer(&out[0])),
		C.uint(len(out)),
		&written,
	)
	if rc != StatusOK {
		return 0, &StatusError{Op: "lerc_encode", Code: uint32(rc)}
	}
	return int(written), nil
}

// Decode expands blob into a freshly allocated pixel buffer shaped by p.
func (c *Codec) Decode(blob []byte, p contracts.CodecParams) ([]byte, error) {
	if len(blob) == 0 {
		return nil, &StatusError{Op: "lerc_decode", Code: StatusWrongParam}
	}
	size := p.Cols * p.Rows * p.Depth * p.Bands * p.DataType.Size()
	if size <= 0 {
		return nil, fmt.Errorf("invalid decode shape %dx%dx%d, %d bands of %s", p.Cols, p.Rows, p.Depth, p.Bands, p.DataType)
	}
	out := make([]byte, size)
	rc := C.lerc_decode(
		(*C.uchar)(unsafe.Pointer(&blob[0])),
		C.uint(len(blob)),
		0, nil,
		C.int(p.Depth), C.int(p.Cols), C.int(p.Rows), C.int(p.Bands),
		C.uint(p.DataType),
		unsafe.Pointer(&out[0]),
	)
	if rc != StatusOK {
		return nil, &StatusError{Op: "lerc_decode", Code: uint32(rc)}
	}
	return out, nil
}

// BlobInfo reads the blob header without decoding pixels.
func (c *Codec) BlobInfo(blob []byte) (contracts.BlobInfo, error) {
	if len(blob) == 0 {
		return contracts.BlobInfo{}, &StatusError{Op: "lerc_getBlobInfo", Code: StatusWrongParam}
	}
	var info [infoArraySize]C.uint
	var ranges [dataRangeSize]C.double
	rc := C.lerc_getBlobInfo(
		(*C.uchar)(unsafe.Pointer(&blob[0])),
		C.uint(len(blob)),
		&info[0], &ranges[0],
		C.int(infoArraySize), C.int(dataRangeSize),
	)
	if rc != StatusOK {
		return contracts.BlobInfo{}, &StatusError{Op: "lerc_getBlobInfo", Code: uint32(rc)}
	}
	return contracts.BlobInfo{
		Version:     int(info[infoVersion]),
		DataType:    contracts.ElementType(info[infoDataType]),
		Depth:       int(info[infoDepth]),
		Cols:        int(info[infoCols]),
		Rows:        int(info[infoRows]),
		Bands:       int(info[infoBands]),
		ValidPixels: int(info[infoValidPixels]),
		BlobSize:    int(info[infoBlobSize]),
		Masks:       int(info[infoMasks]),
		ZMin:        float64(ranges[0]),
		ZMax:        float64(ranges[1]),
		MaxZError:   float64(ranges[2]),
	}, nil
}
