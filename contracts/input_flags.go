package contracts

import "fmt"

type InputFlags struct {
	InputPath  string
	OutputPath string
	ConfigPath string
	DataType   string
	LogLevel   string
	LogFormat  string
	MaxZError  float64
	Band       uint
	Signed     bool
	RawData    bool
	Verify     bool
}

// DirectoryMode reports whether the input path names a directory tree.
// A trailing path separator is what selects it, not the filesystem.
func (f InputFlags) DirectoryMode() bool {
	return HasTrailingSeparator(f.InputPath)
}

// Validate checks the flag combination before any file is touched. In
// directory mode the output must name a directory too, and vice versa.
func (f InputFlags) Validate() error {
	if f.InputPath == "" {
		return fmt.Errorf("%w: --input is required", ErrConfig)
	}
	if f.OutputPath == "" {
		return fmt.Errorf("%w: --output is required", ErrConfig)
	}
	if f.DirectoryMode() != HasTrailingSeparator(f.OutputPath) {
		if f.DirectoryMode() {
			return fmt.Errorf("%w: input %s is a directory, output %s must end with a path separator", ErrConfig, f.InputPath, f.OutputPath)
		}
		return fmt.Errorf("%w: input %s is a file, output %s must not end with a path separator", ErrConfig, f.InputPath, f.OutputPath)
	}
	return nil
}
