package files_manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tiff2lerc/contracts"
)

type ConversionTask = contracts.ConversionTask
type BatchReport = contracts.BatchReport

const OutputExtension = "lerc"

// Extension returns the text after the last dot of name. A name whose only
// dot is its first character has no extension.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

// IsTIFFName matches "tif" and "tiff" extensions, case-sensitively.
func IsTIFFName(name string) bool {
	switch Extension(name) {
	case "tif", "tiff":
		return true
	}
	return false
}

// ReplaceExtension swaps the extension of name for ext, or appends it when
// name has none.
func ReplaceExtension(name, ext string) string {
	if old := Extension(name); old != "" {
		return name[:len(name)-len(old)] + ext
	}
	return name + "." + ext
}

// MirrorPath maps path under inputRoot to the same relative path under
// outputRoot.
func MirrorPath(path, inputRoot, outputRoot string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(inputRoot), filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", contracts.ErrConfig, path, inputRoot)
	}
	return filepath.Join(outputRoot, rel), nil
}

// DestinationPath is the output file for a TIFF found under inputRoot.
func DestinationPath(path, inputRoot, outputRoot string) (string, error) {
	mirrored, err := MirrorPath(path, inputRoot, outputRoot)
	if err != nil {
		return "", err
	}
	dir, name := filepath.Split(mirrored)
	return filepath.Join(dir, ReplaceExtension(name, OutputExtension)), nil
}

func IsDirectoryExist(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsFileExist(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", contracts.ErrIO, path, err)
	}
	return nil
}

// Walker visits every TIFF under an input root, depth first, and hands each
// one to a FileConverter. Output directories are created before the files in
// them are converted. A failed file is logged and recorded; the walk goes on.
type Walker struct {
	converter contracts.FileConverter
	logger    *slog.Logger
}

func NewWalker(converter contracts.FileConverter, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{converter: converter, logger: logger}
}

type walk struct {
	*Walker
	inputRoot  string
	outputRoot string
	skip       string
	report     *BatchReport
}

// Walk converts the tree under inputRoot into outputRoot. The returned error
// is non-nil only when the walk could not start, the output root could not
// be locked, or ctx was canceled; per-file failures are in the report.
func (w *Walker) Walk(ctx context.Context, inputRoot, outputRoot string) (BatchReport, error) {
	var report BatchReport
	if !IsDirectoryExist(inputRoot) {
		return report, fmt.Errorf("%w: input directory %s does not exist", contracts.ErrIO, inputRoot)
	}
	if err := CreateDirectory(outputRoot); err != nil {
		return report, err
	}

	lock, err := LockOutput(outputRoot)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			w.logger.Warn("release output lock", "path", lock.Path(), "error", err)
		}
	}()

	state := &walk{
		Walker:     w,
		inputRoot:  filepath.Clean(inputRoot),
		outputRoot: filepath.Clean(outputRoot),
		report:     &report,
	}
	if abs, err := filepath.Abs(outputRoot); err == nil {
		state.skip = abs
	}
	err = state.dir(ctx, state.inputRoot)
	return report, err
}

func (s *walk) fail(path, stage string, err error) {
	if staged := stageOf(err); staged != "" {
		stage = staged
	}
	kind := contracts.KindOf(err)
	s.logger.Error("conversion failed", "path", path, "stage", stage, "kind", kind, "error", err)
	s.report.Failed = append(s.report.Failed, contracts.FileFailure{Path: path, Stage: stage, Kind: kind, Err: err})
}

func stageOf(err error) string {
	var staged interface{ FailedStage() string }
	if errors.As(err, &staged) {
		return staged.FailedStage()
	}
	return ""
}

func (s *walk) dir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == s.inputRoot {
			return fmt.Errorf("%w: read directory %s: %v", contracts.ErrIO, dir, err)
		}
		s.fail(dir, "list", fmt.Errorf("%w: read directory: %v", contracts.ErrIO, err))
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == s.skip {
				continue
			}
			mirror, err := MirrorPath(path, s.inputRoot, s.outputRoot)
			if err != nil {
				s.fail(path, "mirror", err)
				continue
			}
			if err := CreateDirectory(mirror); err != nil {
				s.fail(path, "mirror", err)
				continue
			}
			s.report.Directories++
			if err := s.dir(ctx, path); err != nil {
				return err
			}
			continue
		}

		if !IsTIFFName(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dest, err := DestinationPath(path, s.inputRoot, s.outputRoot)
		if err != nil {
			s.fail(path, "mirror", err)
			continue
		}
		res, err := s.converter.ConvertFile(ctx, ConversionTask{SourcePath: path, DestPath: dest})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.fail(path, "convert", err)
			continue
		}
		s.report.Converted = append(s.report.Converted, path)
		s.report.BytesIn += res.BytesIn
		s.report.BytesOut += res.BytesOut
		s.logger.Info("converted", "path", path, "dest", dest, "bytes_out", res.BytesOut)
	}
	return nil
}
