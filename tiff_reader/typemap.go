package tiff_reader

import (
	"fmt"

	"tiff2lerc/contracts"
)

type ElementType = contracts.ElementType

// MapElementType derives the pixel type from SampleFormat and BitsPerSample.
// treatSigned turns the unsigned tiers into their signed counterparts for
// files that under-declare signedness. Anything outside the table fails with
// ErrFormat; nothing is coerced.
func MapElementType(format SampleFormat, bits uint16, treatSigned bool) (ElementType, error) {
	switch format {
	case SampleFormatInt:
		switch bits {
		case 8:
			return contracts.Int8, nil
		case 16:
			return contracts.Int16, nil
		case 32:
			return contracts.Int32, nil
		}
	case SampleFormatUint:
		switch bits {
		case 8:
			if treatSigned {
				return contracts.Int8, nil
			}
			return contracts.Uint8, nil
		case 16:
			if treatSigned {
				return contracts.Int16, nil
			}
			return contracts.Uint16, nil
		case 32:
			if treatSigned {
				return contracts.Int32, nil
			}
			return contracts.Uint32, nil
		}
	case SampleFormatIEEEFP:
		if bits == 32 {
			return contracts.Float32, nil
		}
		if bits == 64 {
			return contracts.ElementUnknown, fmt.Errorf("%w: double precision samples are not supported", contracts.ErrFormat)
		}
	}
	return contracts.ElementUnknown, fmt.Errorf("%w: unsupported sample format %s with %d bits per sample",
		contracts.ErrFormat, format, bits)
}

// resolveType applies the caller override on top of the derived type. The
// override must keep the file's sample width.
func resolveType(format SampleFormat, bits uint16, opts ReadOptions) (ElementType, error) {
	derived, err := MapElementType(format, bits, opts.TreatSigned)
	if err != nil {
		return derived, err
	}
	if opts.ForceType == nil {
		return derived, nil
	}
	forced := *opts.ForceType
	if !forced.Supported() {
		return contracts.ElementUnknown, fmt.Errorf("%w: data type %s is not supported", contracts.ErrFormat, forced)
	}
	if forced.Size() != derived.Size() {
		return contracts.ElementUnknown, fmt.Errorf("%w: data type %s does not match %d bits per sample",
			contracts.ErrFormat, forced, bits)
	}
	return forced, nil
}
