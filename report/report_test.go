package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tiff2lerc/contracts"
)

func TestBatchSummary(t *testing.T) {
	out := Batch(contracts.BatchReport{
		Converted:   []string{"in/a.tif", "in/sub/b.tiff"},
		Directories: 1,
		BytesIn:     2_000_000,
		BytesOut:    500_000,
	}, 1500*time.Millisecond)

	assert.Contains(t, out, "Converted")
	assert.NotContains(t, out, "CONVERTED")
	assert.Contains(t, out, "2.0 MB")
	assert.Contains(t, out, "500 kB")
	assert.Contains(t, out, "0.25")
	assert.Contains(t, out, "1.5s")
	assert.NotContains(t, out, "Stage")
}

func TestBatchListsFailures(t *testing.T) {
	out := Batch(contracts.BatchReport{
		Converted: []string{"in/b.tif"},
		Failed: []contracts.FileFailure{
			{Path: "in/a.tif", Stage: "resolve-type", Kind: "format", Err: errors.New("format: float64 samples")},
		},
	}, time.Second)

	assert.Contains(t, out, "in/a.tif")
	assert.Contains(t, out, "resolve-type")
	assert.Contains(t, out, "float64 samples")
	assert.Equal(t, 2, strings.Count(out, "╭"), "summary and failure tables")
}

func TestBlobInfoTable(t *testing.T) {
	out := BlobInfo([]BlobEntry{
		{Path: "a.lerc", Info: contracts.BlobInfo{
			Version: 4, DataType: contracts.Uint16, Cols: 640, Rows: 480, Depth: 1, Bands: 1,
			ValidPixels: 307200, ZMin: 0, ZMax: 4095, MaxZError: 0.5, BlobSize: 2048,
		}},
		{Path: "b.lerc", Err: errors.New("not a blob")},
	})

	assert.Contains(t, out, "uint16")
	assert.Contains(t, out, "640x480")
	assert.Contains(t, out, "4095")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "error: not a blob")
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(0, 10))
	assert.Equal(t, 0.5, Ratio(10, 5))
}
