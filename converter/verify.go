package converter

import (
	"encoding/binary"
	"fmt"
	"math"

	"tiff2lerc/contracts"
)

// verifyBlob decodes blob and fails with ErrEncode when any sample moved
// further than maxZError from the source.
func verifyBlob(enc *Encoder, blob EncodedBlob, r *RasterBuffer, bands int, maxZError float64) error {
	decoded, err := enc.Decode(blob.Data, r, bands)
	if err != nil {
		return err
	}
	need := r.Width * r.Height * bands * r.Type.Size()
	if len(decoded) < need {
		return fmt.Errorf("%w: decoded %d bytes, expected %d", contracts.ErrEncode, len(decoded), need)
	}
	idx, diff, ok := CheckTolerance(r.Pixels[:need], decoded[:need], r.Type, maxZError)
	if !ok {
		return fmt.Errorf("%w: sample %d differs by %g, max z error is %g", contracts.ErrEncode, idx, diff, maxZError)
	}
	return nil
}

// CheckTolerance compares little-endian samples of type t pairwise and returns
// the first index whose difference exceeds maxZError. Float32 samples get one
// unit in the last place of slack for the codec's rounding.
func CheckTolerance(want, got []byte, t contracts.ElementType, maxZError float64) (int, float64, bool) {
	size := t.Size()
	if size == 0 {
		return 0, 0, false
	}
	n := len(want)
	if len(got) < n {
		n = len(got)
	}
	for i := 0; i+size <= n; i += size {
		a, b := sample(want[i:], t), sample(got[i:], t)
		d := math.Abs(a - b)
		limit := maxZError
		if t == contracts.Float32 {
			limit += math.Max(math.Abs(a), math.Abs(b)) * 0x1p-23
		}
		if math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		if math.IsNaN(d) || d > limit {
			return i / size, d, false
		}
	}
	return 0, 0, true
}

// MaxAbsDiff returns the largest absolute sample difference over the common
// prefix of a and b.
func MaxAbsDiff(a, b []byte, t contracts.ElementType) float64 {
	size := t.Size()
	if size == 0 {
		return math.NaN()
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	worst := 0.0
	for i := 0; i+size <= n; i += size {
		if d := math.Abs(sample(a[i:], t) - sample(b[i:], t)); d > worst {
			worst = d
		}
	}
	return worst
}

func sample(b []byte, t contracts.ElementType) float64 {
	switch t {
	case contracts.Int8:
		return float64(int8(b[0]))
	case contracts.Uint8:
		return float64(b[0])
	case contracts.Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case contracts.Uint16:
		return float64(binary.LittleEndian.Uint16(b))
	case contracts.Int32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case contracts.Uint32:
		return float64(binary.LittleEndian.Uint32(b))
	case contracts.Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case contracts.Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}
