// Package cli holds the argument and exit-code conventions shared by the
// dataset tools. Every tool takes the dataset root as its only positional
// argument and works on fixed subdirectories below it.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed dataset subdirectory names
const (
	MaskDir      = "mask"
	UnwrappedDir = "unwrapped"
	HorizonDir   = "horizon"
	SkyMaskDir   = "skymask"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	// ErrUsage is returned when the dataset root argument is missing
	ErrUsage = errors.New("dataset root directory expected")

	// ErrMissingInput is returned when a required directory or file is absent
	ErrMissingInput = errors.New("missing input")
)

// Options are the flags every tool accepts
type Options struct {
	ConfigPath string
	Verbose    bool
	Root       string

	// WriteConfig asks for a default config at ConfigPath instead of a run.
	// Root is not required with it.
	WriteConfig bool
}

// Parse registers the common flags on fs, parses args and extracts the
// dataset root.
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	opts := &Options{}
	fs.StringVar(&opts.ConfigPath, "config", "config.yaml", "YAML configuration file")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.WriteConfig, "write-config", false, "Write a default config to the -config path and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if opts.WriteConfig {
		return opts, nil
	}
	if fs.NArg() < 1 {
		return nil, ErrUsage
	}
	opts.Root = fs.Arg(0)
	return opts, nil
}

// RequireDir returns root/name, failing with ErrMissingInput when it does not exist
func RequireDir(root, name string) (string, error) {
	dir := filepath.Join(root, name)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrMissingInput, dir)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrMissingInput, dir)
	}
	return dir, nil
}

// EnsureDir returns root/name, creating it if needed
func EnsureDir(root, name string) (string, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// ExitCode maps a run error onto the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}
