// Package converter turns one uncompressed TIFF into one LERC blob (or a raw
// dump) and writes it to disk.
package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tiff2lerc/contracts"
	"tiff2lerc/lerc"
	"tiff2lerc/raw_writer"
	"tiff2lerc/tiff_reader"
	"tiff2lerc/utils"
)

// Stage is how far a file got through the pipeline.
type Stage int

const (
	StagePending Stage = iota
	StageOpened
	StageTypeResolved
	StageRead
	StageEncoded
	StageWritten
)

var stageNames = [...]string{
	StagePending:      "pending",
	StageOpened:       "open",
	StageTypeResolved: "resolve-type",
	StageRead:         "read",
	StageEncoded:      "encode",
	StageWritten:      "write",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ConversionError reports the stage a file failed to reach.
type ConversionError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) FailedStage() string {
	return e.Stage.String()
}

type Options struct {
	Read      tiff_reader.ReadOptions
	MaxZError float64
	// Bands overrides the file's SamplesPerPixel when > 0.
	Bands   int
	RawData bool
	// Verify decodes every blob and checks it against the source pixels.
	Verify bool
	// Codec defaults to liblerc.
	Codec  contracts.Codec
	Logger *slog.Logger
}

type Result = contracts.FileResult

// Converter binds Options to the contracts.FileConverter interface used by
// the batch walker.
type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

func (c *Converter) ConvertFile(ctx context.Context, task contracts.ConversionTask) (contracts.FileResult, error) {
	return ConvertFile(ctx, task.SourcePath, task.DestPath, c.opts)
}

// withBands applies a band override. Interleaved samples cannot be split, so
// the override must match the file there. Planar rasters may keep a leading
// subset of their planes.
func withBands(r *RasterBuffer, bands int) (*RasterBuffer, error) {
	if bands <= 0 || bands == r.Bands {
		return r, nil
	}
	if !r.Planar || bands > r.Bands {
		return nil, fmt.Errorf("%w: band override %d does not fit %d samples per pixel (planar=%t)",
			contracts.ErrFormat, bands, r.Bands, r.Planar)
	}
	trimmed := *r
	trimmed.Bands = bands
	trimmed.Pixels = r.Pixels[:r.Stride*r.Height*bands]
	return &trimmed, nil
}

// ConvertFile runs src through open, type resolution, scanline read, encode
// and write. dst is only created once the complete output is on disk.
func ConvertFile(ctx context.Context, src, dst string, opts Options) (Result, error) {
	res := Result{SourcePath: src, DestPath: dst}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	codec := opts.Codec
	if codec == nil {
		codec = lerc.New()
	}
	fail := func(stage Stage, err error) (Result, error) {
		return res, &ConversionError{Path: src, Stage: stage, Err: err}
	}

	f, err := tiff_reader.Open(src)
	if err != nil {
		return fail(StageOpened, err)
	}
	defer f.Close()
	if info, err := os.Stat(src); err == nil {
		res.BytesIn = info.Size()
	}

	elem, err := f.ResolveType(opts.Read)
	if err != nil {
		return fail(StageTypeResolved, err)
	}

	raster, err := f.ReadRaster(elem)
	if err != nil {
		return fail(StageRead, err)
	}
	if dims, err := utils.GetTIFFXResolution(src); err != nil {
		logger.Debug("no resolution hint", "path", src, "error", err)
	} else {
		raster.DimsHint = dims
	}

	raster, err = withBands(raster, opts.Bands)
	if err != nil {
		return fail(StageEncoded, err)
	}
	bands := raster.Bands
	res.Width, res.Height, res.Bands, res.Type = raster.Width, raster.Height, bands, raster.Type

	var write func(w io.Writer) error
	if opts.RawData {
		if _, err := raw_writer.HeaderFor(raster, bands); err != nil {
			return fail(StageEncoded, err)
		}
		write = func(w io.Writer) error {
			rw := raw_writer.NewRawWriter(w)
			if err := rw.WriteRaster(raster, bands); err != nil {
				return err
			}
			return rw.Flush()
		}
	} else {
		enc := NewEncoder(codec)
		blob, err := enc.Encode(contracts.EncodeRequest{
			Raster:    raster,
			MaxZError: opts.MaxZError,
			Bands:     bands,
		})
		if err != nil {
			return fail(StageEncoded, err)
		}
		if opts.Verify {
			if err := verifyBlob(enc, blob, raster, bands, opts.MaxZError); err != nil {
				return fail(StageEncoded, err)
			}
		}
		write = func(w io.Writer) error {
			if _, err := w.Write(blob.Data); err != nil {
				return fmt.Errorf("%w: write blob: %v", contracts.ErrIO, err)
			}
			return nil
		}
	}

	n, err := saveOutput(dst, write)
	if err != nil {
		return fail(StageWritten, err)
	}
	res.BytesOut = n

	logger.Debug("converted",
		"path", src,
		"dest", dst,
		"type", raster.Type.String(),
		"width", raster.Width,
		"height", raster.Height,
		"bands", bands,
		"bytes_out", n,
	)
	return res, nil
}
