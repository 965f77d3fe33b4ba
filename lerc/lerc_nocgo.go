//go:build !cgo
// +build !cgo

package lerc

import "tiff2lerc/contracts"

func (c *Codec) ComputeCompressedSize(data []byte, p contracts.CodecParams) (int, error) {
	return 0, ErrUnavailable
}

func (c *Codec) Encode(data []byte, p contracts.CodecParams, out []byte) (int, error) {
	return 0, ErrUnavailable
}

func (c *Codec) Decode(blob []byte, p contracts.CodecParams) ([]byte, error) {
	return nil, ErrUnavailable
}

func (c *Codec) BlobInfo(blob []byte) (contracts.BlobInfo, error) {
	return contracts.BlobInfo{}, ErrUnavailable
}
