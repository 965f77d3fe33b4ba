package contracts

import (
	"os"
	"strings"
)

// ConversionTask pairs one matched TIFF with the path its output goes to.
type ConversionTask struct {
	SourcePath string
	DestPath   string
}

type FileFailure struct {
	Path  string
	Stage string
	Kind  string
	Err   error
}

type BatchReport struct {
	Converted   []string
	Failed      []FileFailure
	Directories int
	BytesIn     int64
	BytesOut    int64
}

func (r *BatchReport) Total() int {
	return len(r.Converted) + len(r.Failed)
}

func HasTrailingSeparator(path string) bool {
	if path == "" {
		return false
	}
	return strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/")
}
