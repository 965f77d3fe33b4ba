package tiff_reader

// Field types, TIFF 6.0 pp. 14-16.
const (
	dtByte     = 1
	dtShort    = 3
	dtLong     = 4
	dtRational = 5
	dtLong8    = 16
)

// Tags consumed by the reader.
const (
	tImageWidth          = 256
	tImageLength         = 257
	tBitsPerSample       = 258
	tCompression         = 259
	tStripOffsets        = 273
	tSamplesPerPixel     = 277
	tRowsPerStrip        = 278
	tStripByteCounts     = 279
	tXResolution         = 282
	tPlanarConfiguration = 284
	tTileWidth           = 322
	tSampleFormat        = 339
	// tDataType is the SGI tag SampleFormat superseded. Its values differ.
	tDataType = 32996
)

const (
	cNone = 1

	planarContig   = 1
	planarSeparate = 2
)

// SampleFormat is the TIFF SampleFormat tag value.
type SampleFormat uint16

const (
	SampleFormatUint   SampleFormat = 1
	SampleFormatInt    SampleFormat = 2
	SampleFormatIEEEFP SampleFormat = 3
	SampleFormatVoid   SampleFormat = 4
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatUint:
		return "unsigned-int"
	case SampleFormatInt:
		return "signed-int"
	case SampleFormatIEEEFP:
		return "ieee-float"
	case SampleFormatVoid:
		return "void"
	}
	return "unknown"
}

// Legacy DataType tag values.
const (
	legacyVoid   = 0
	legacyInt    = 1
	legacyUint   = 2
	legacyIEEEFP = 3
)

func sampleFormatFromLegacy(v uint64) SampleFormat {
	switch v {
	case legacyInt:
		return SampleFormatInt
	case legacyUint:
		return SampleFormatUint
	case legacyIEEEFP:
		return SampleFormatIEEEFP
	default:
		return SampleFormatVoid
	}
}
