// Package config loads tiff2lerc settings from an optional TOML file.
//
// Precedence is defaults, then the file, then command line flags the user set
// explicitly (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"tiff2lerc/contracts"
)

// Conversion holds per-file encoding settings.
type Conversion struct {
	// Band 0 means use each file's SamplesPerPixel.
	Band      uint    `toml:"band"`
	MaxZError float64 `toml:"max_z_error"`
	Signed    bool    `toml:"signed"`
	// DataType overrides the element type derived from the TIFF tags.
	DataType string `toml:"datatype"`
	Verify   bool   `toml:"verify"`
	RawData  bool   `toml:"raw_data"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

type Config struct {
	Conversion Conversion `toml:"conversion"`
	Logging    Logging    `toml:"logging"`
}

const (
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with lossless, auto-detecting defaults.
func Default() Config {
	return Config{
		Conversion: Conversion{
			DataType: "auto",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Load reads path on top of Default. An empty path yields the defaults; a
// named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return &cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %s does not exist", contracts.ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: open config: %v", contracts.ErrConfig, err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config %s: %v", contracts.ErrConfig, path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Conversion.DataType = strings.ToLower(strings.TrimSpace(c.Conversion.DataType))
	if c.Conversion.DataType == "" {
		c.Conversion.DataType = "auto"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: encode config: %v", contracts.ErrConfig, err)
	}
	return out, nil
}
