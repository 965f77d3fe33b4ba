package converter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"tiff2lerc/contracts"
)

func tmpPathFor(dst string) string {
	return dst + ".tmp"
}

// saveOutput writes through a sibling .tmp file and renames it over dst once
// write has succeeded and the file is not empty. On failure the .tmp file is
// removed and dst is left untouched.
func saveOutput(dst string, write func(w io.Writer) error) (int64, error) {
	tmpPath := tmpPathFor(dst)
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", contracts.ErrIO, tmpPath, err)
	}
	fail := func(err error) (int64, error) {
		f.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("%w: write %s: %v", contracts.ErrIO, tmpPath, err))
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("%w: sync %s: %v", contracts.ErrIO, tmpPath, err))
	}
	info, err := f.Stat()
	if err != nil {
		return fail(fmt.Errorf("%w: failed to get file info: %v", contracts.ErrIO, err))
	}
	if info.Size() == 0 {
		return fail(fmt.Errorf("%w: file is empty: %s", contracts.ErrIO, tmpPath))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: close %s: %v", contracts.ErrIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: failed to rename file: %v", contracts.ErrIO, err)
	}
	return info.Size(), nil
}
