package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tiff2lerc/config"
	"tiff2lerc/contracts"
	"tiff2lerc/lerc"
	"tiff2lerc/logging"
)

// newCodec is swapped by tests.
var newCodec = func() contracts.Codec { return lerc.New() }

type commandContext struct {
	flags  contracts.InputFlags
	signed string
}

// loadConfig layers explicitly set flags over the config file over defaults.
func (c *commandContext) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("band") {
		cfg.Conversion.Band = c.flags.Band
	}
	if changed("maxzerror") {
		cfg.Conversion.MaxZError = c.flags.MaxZError
	}
	if changed("signed") {
		signed, err := strconv.ParseBool(c.signed)
		if err != nil {
			return nil, fmt.Errorf("%w: --signed expects true or false, got %q", contracts.ErrConfig, c.signed)
		}
		cfg.Conversion.Signed = signed
	}
	if changed("datatype") {
		cfg.Conversion.DataType = c.flags.DataType
	}
	if changed("rawdata") {
		cfg.Conversion.RawData = c.flags.RawData
	}
	if changed("verify") {
		cfg.Conversion.Verify = c.flags.Verify
	}
	if changed("log-level") {
		cfg.Logging.Level = c.flags.LogLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = c.flags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.flags.Band = cfg.Conversion.Band
	c.flags.MaxZError = cfg.Conversion.MaxZError
	c.flags.Signed = cfg.Conversion.Signed
	c.flags.DataType = cfg.Conversion.DataType
	c.flags.RawData = cfg.Conversion.RawData
	c.flags.Verify = cfg.Conversion.Verify
	return cfg, nil
}

// logger builds the run logger, tagged with a fresh run id.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return logger.With("run_id", uuid.NewString()), nil
}
