// Package lerc binds the Esri LERC C API (Lerc_c_api.h, liblerc >= 3.0).
//
// Only the calls tiff2lerc needs are exposed: compressed size, encode, decode
// and blob info. Without cgo every call fails with ErrUnavailable.
package lerc

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = errors.New("lerc: built without cgo, codec unavailable")

// Status codes returned by the C API.
const (
	StatusOK             = 0
	StatusFailed         = 1
	StatusWrongParam     = 2
	StatusBufferTooSmall = 3
	StatusNaN            = 4
	StatusHasNoData      = 5
)

var statusText = map[uint32]string{
	StatusOK:             "ok",
	StatusFailed:         "failed",
	StatusWrongParam:     "wrong parameter",
	StatusBufferTooSmall: "buffer too small",
	StatusNaN:            "nan in input",
	StatusHasNoData:      "input has no data",
}

type StatusError struct {
	Op   string
	Code uint32
}

func (e *StatusError) Error() string {
	text, ok := statusText[e.Code]
	if !ok {
		text = "unknown status"
	}
	return fmt.Sprintf("%s failed with code %d (%s)", e.Op, e.Code, text)
}

// infoArray indices of lerc_getBlobInfo.
const (
	infoVersion = iota
	infoDataType
	infoDepth
	infoCols
	infoRows
	infoBands
	infoValidPixels
	infoBlobSize
	infoMasks
	infoArraySize
)

const dataRangeSize = 3

// Codec satisfies contracts.Codec on top of the C library.
type Codec struct{}

func New() *Codec {
	return &Codec{}
}
