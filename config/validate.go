package config

import (
	"fmt"
	"math"

	"tiff2lerc/contracts"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateConversion() error {
	z := c.Conversion.MaxZError
	if math.IsNaN(z) || math.IsInf(z, 0) || z < 0 {
		return fmt.Errorf("%w: conversion.max_z_error must be a finite value >= 0", contracts.ErrConfig)
	}
	if _, err := c.ElementType(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level must be one of debug, info, warn, error", contracts.ErrConfig)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json", contracts.ErrConfig)
	}
	return nil
}

// ElementType resolves conversion.datatype. ElementUnknown means "derive
// from the file".
func (c *Config) ElementType() (contracts.ElementType, error) {
	t, err := contracts.ParseElementType(c.Conversion.DataType)
	if err != nil {
		return contracts.ElementUnknown, fmt.Errorf("conversion.datatype: %w", err)
	}
	if t != contracts.ElementUnknown && !t.Supported() {
		return contracts.ElementUnknown, fmt.Errorf("%w: conversion.datatype %s cannot be encoded", contracts.ErrConfig, t)
	}
	return t, nil
}
