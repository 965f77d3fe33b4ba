package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tiff2lerc/config"
	"tiff2lerc/contracts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiff2lerc.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Conversion.MaxZError != 0 {
		t.Fatalf("expected lossless default, got %v", cfg.Conversion.MaxZError)
	}
	if cfg.Conversion.Band != 0 {
		t.Fatalf("expected band 0 by default, got %d", cfg.Conversion.Band)
	}
	if cfg.Conversion.Signed || cfg.Conversion.RawData || cfg.Conversion.Verify {
		t.Fatal("expected boolean options off by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	elem, err := cfg.ElementType()
	if err != nil || elem != contracts.ElementUnknown {
		t.Fatalf("expected auto datatype, got %v (%v)", elem, err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[conversion]
band = 3
max_z_error = 0.25
signed = true
datatype = " Float32 "
verify = true

[logging]
level = "DEBUG"
format = "json"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Conversion.Band != 3 {
		t.Fatalf("unexpected band: %d", cfg.Conversion.Band)
	}
	if cfg.Conversion.MaxZError != 0.25 {
		t.Fatalf("unexpected max z error: %v", cfg.Conversion.MaxZError)
	}
	if !cfg.Conversion.Signed || !cfg.Conversion.Verify {
		t.Fatal("expected signed and verify enabled")
	}
	elem, err := cfg.ElementType()
	if err != nil || elem != contracts.Float32 {
		t.Fatalf("expected float32 datatype, got %v (%v)", elem, err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative tolerance": "[conversion]\nmax_z_error = -1\n",
		"nan tolerance":      "[conversion]\nmax_z_error = nan\n",
		"unknown datatype":   "[conversion]\ndatatype = \"complex64\"\n",
		"float64 datatype":   "[conversion]\ndatatype = \"float64\"\n",
		"bad level":          "[logging]\nlevel = \"loud\"\n",
		"bad format":         "[logging]\nformat = \"xml\"\n",
		"unknown key":        "[conversion]\nbands = 2\n",
		"not toml":           "this is = = not toml",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, contracts.ErrConfig) {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, contracts.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Conversion.MaxZError = 0.5
	cfg.Conversion.Band = 4

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if decoded != cfg {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, cfg)
	}
}
