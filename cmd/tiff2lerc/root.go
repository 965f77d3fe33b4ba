package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tiff2lerc/config"
	"tiff2lerc/contracts"
	"tiff2lerc/converter"
	"tiff2lerc/files_manager"
	"tiff2lerc/report"
	"tiff2lerc/tiff_reader"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:   "tiff2lerc --input <path> --output <path>",
		Short: "Convert uncompressed TIFF rasters to LERC blobs",
		Long: `Convert uncompressed TIFF rasters to LERC blobs.

An input ending in a path separator is walked recursively and every .tif or
.tiff file below it is written to the same relative path under the output
directory, which must end in a path separator too. Otherwise the input is one
file and the output is the file to create.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&ctx.flags.ConfigPath, "config", "c", "", "Configuration file path (TOML)")
	pf.StringVar(&ctx.flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&ctx.flags.LogFormat, "log-format", "console", "Log format: console or json")

	f := rootCmd.Flags()
	f.StringVar(&ctx.flags.InputPath, "input", "", "Input TIFF file, or directory ending in a path separator")
	f.StringVar(&ctx.flags.OutputPath, "output", "", "Output file, or directory ending in a path separator")
	f.UintVar(&ctx.flags.Band, "band", 0, "Band count handed to the encoder (0 uses SamplesPerPixel)")
	f.Float64Var(&ctx.flags.MaxZError, "maxzerror", 0, "Maximum per-sample error, 0 is lossless")
	f.StringVar(&ctx.signed, "signed", "false", "Treat unsigned integer samples as signed (true or false)")
	f.BoolVar(&ctx.flags.RawData, "rawdata", false, "Write a raw dump instead of a LERC blob (single file mode)")
	f.StringVar(&ctx.flags.DataType, "datatype", "auto", "Override the sample type: auto, int8, uint8, int16, uint16, int32, uint32, float32")
	f.BoolVar(&ctx.flags.Verify, "verify", false, "Decode every blob and check it against the source")

	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	return rootCmd
}

func conversionOptions(cfg *config.Config, flags contracts.InputFlags) (converter.Options, error) {
	opts := converter.Options{
		Read:      tiff_reader.ReadOptions{TreatSigned: flags.Signed},
		MaxZError: flags.MaxZError,
		Bands:     int(flags.Band),
		RawData:   flags.RawData,
		Verify:    flags.Verify,
		Codec:     newCodec(),
	}
	elem, err := cfg.ElementType()
	if err != nil {
		return opts, err
	}
	if elem != contracts.ElementUnknown {
		opts.Read.ForceType = &elem
	}
	return opts, nil
}

func runConvert(cmd *cobra.Command, ctx *commandContext) error {
	if err := ctx.flags.Validate(); err != nil {
		return err
	}
	cfg, err := ctx.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}
	opts, err := conversionOptions(cfg, ctx.flags)
	if err != nil {
		return err
	}
	opts.Logger = logger

	flags := ctx.flags
	logger.Debug("starting",
		"input", flags.InputPath,
		"output", flags.OutputPath,
		"band", flags.Band,
		"max_z_error", flags.MaxZError,
		"signed", flags.Signed,
		"datatype", flags.DataType,
		"directory_mode", flags.DirectoryMode(),
	)

	if !flags.DirectoryMode() {
		res, err := converter.ConvertFile(cmd.Context(), flags.InputPath, flags.OutputPath, opts)
		if err != nil {
			logger.Error("conversion failed", "path", flags.InputPath, "kind", contracts.KindOf(err), "error", err)
			return err
		}
		logger.Info("converted", "path", res.SourcePath, "dest", res.DestPath, "bytes_in", res.BytesIn, "bytes_out", res.BytesOut)
		return nil
	}

	if opts.RawData {
		logger.Warn("--rawdata is only honored for single files, writing LERC blobs")
		opts.RawData = false
	}
	started := time.Now()
	walker := files_manager.NewWalker(converter.New(opts), logger)
	batch, err := walker.Walk(cmd.Context(), flags.InputPath, flags.OutputPath)
	fmt.Fprint(cmd.OutOrStdout(), report.Batch(batch, time.Since(started)))
	if err != nil {
		return err
	}
	logger.Info("batch finished", "converted", len(batch.Converted), "failed", len(batch.Failed))
	return nil
}
