package utils

import (
	"fmt"
	"os"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// Resolution holds the raw resolution tags of a TIFF's first IFD.
type Resolution struct {
	X    float64
	Y    float64
	Unit uint16
}

// GetTIFFXResolution returns the XResolution tag of the file at filePath.
// The value is a hint only; callers treat a failure as "absent".
func GetTIFFXResolution(filePath string) (float64, error) {
	res, err := GetTIFFResolution(filePath)
	if err != nil {
		return 0, err
	}
	return res.X, nil
}

func GetTIFFResolution(filePath string) (Resolution, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Resolution{}, err
	}
	return ParseTIFFResolution(data)
}

func ParseTIFFResolution(data []byte) (Resolution, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return Resolution{}, fmt.Errorf("TIFF header not found: %v", err)
	}

	im := exifcommon.NewIfdMapping()
	ti := exif.NewTagIndex()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return Resolution{}, err
	}

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{}
	found := false

	if value, ok := rationalTag(index.RootIfd, "XResolution"); ok {
		res.X = value
		found = true
	}
	if value, ok := rationalTag(index.RootIfd, "YResolution"); ok {
		res.Y = value
	}

	if tag, err := index.RootIfd.FindTagWithName("ResolutionUnit"); err == nil {
		if val, err := tag[0].Value(); err == nil {
			if units, ok := val.([]uint16); ok && len(units) > 0 {
				res.Unit = units[0]
			}
		}
	}

	if !found {
		return res, fmt.Errorf("XResolution not present")
	}
	return res, nil
}

func rationalTag(ifd *exif.Ifd, name string) (float64, bool) {
	tag, err := ifd.FindTagWithName(name)
	if err != nil || len(tag) == 0 {
		return 0, false
	}
	val, err := tag[0].Value()
	if err != nil {
		return 0, false
	}
	rats, ok := val.([]exifcommon.Rational)
	if !ok || len(rats) == 0 || rats[0].Denominator == 0 {
		return 0, false
	}
	return float64(rats[0].Numerator) / float64(rats[0].Denominator), true
}
