package contracts

import "context"

// CodecParams describes a pixel block the way the LERC C API takes it:
// Depth values per pixel, Cols x Rows pixels, Bands such blocks back to back.
type CodecParams struct {
	DataType  ElementType
	Depth     int
	Cols      int
	Rows      int
	Bands     int
	MaxZError float64
}

// BlobInfo is the header summary of an encoded LERC blob.
type BlobInfo struct {
	Version     int
	DataType    ElementType
	Depth       int
	Cols        int
	Rows        int
	Bands       int
	ValidPixels int
	BlobSize    int
	Masks       int
	ZMin        float64
	ZMax        float64
	MaxZError   float64
}

// Codec is the two-phase encoder contract: size first, then encode into a
// buffer of that size.
type Codec interface {
	ComputeCompressedSize(data []byte, p CodecParams) (int, error)
	Encode(data []byte, p CodecParams, out []byte) (int, error)
	Decode(blob []byte, p CodecParams) ([]byte, error)
	BlobInfo(blob []byte) (BlobInfo, error)
}

// FileResult describes one successfully converted file.
type FileResult struct {
	SourcePath string
	DestPath   string
	Width      int
	Height     int
	Bands      int
	Type       ElementType
	BytesIn    int64
	BytesOut   int64
}

// FileConverter turns one TIFF into one output file.
type FileConverter interface {
	ConvertFile(ctx context.Context, task ConversionTask) (FileResult, error)
}
