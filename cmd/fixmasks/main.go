// Command fixmasks cleans the frame border of every <root>/mask/*_mask.png
// in place, replacing the outermost rows and columns with their inner
// neighbours, and optionally forces the result to two levels.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"librarysquare/internal/cli"
	"librarysquare/internal/imageio"
	"librarysquare/internal/logging"
	"librarysquare/pkg/config"
	"librarysquare/pkg/mask"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fixmasks", flag.ContinueOnError)
	opts, err := cli.Parse(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Directory of route or image grid containing masks expected")
		return cli.ExitCode(err)
	}

	if opts.WriteConfig {
		if err := config.CreateDefaultConfigFile(opts.ConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			return cli.ExitFailure
		}
		fmt.Printf("Wrote default configuration to %s\n", opts.ConfigPath)
		return cli.ExitOK
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return cli.ExitFailure
	}
	logger := logging.New(opts.Verbose || cfg.Output.Verbose)

	maskDir, err := cli.RequireDir(opts.Root, cli.MaskDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}

	paths, err := imageio.Glob(maskDir, "*_mask.png")
	if err != nil {
		logger.WithError(err).Error("Failed to list masks")
		return cli.ExitFailure
	}

	failed := 0
	for _, path := range paths {
		if err := fixMask(path, cfg.Mask.Binarize, logger.WithField("mask", path)); err != nil {
			logger.WithError(err).WithField("mask", path).Error("Failed to fix mask")
			failed++
			continue
		}
		logger.WithField("mask", path).Info("Fixed mask")
	}

	logger.WithFields(logrus.Fields{
		"masks":  len(paths),
		"failed": failed,
	}).Info("Mask fix-up completed")
	if failed > 0 {
		return cli.ExitFailure
	}
	return cli.ExitOK
}

// fixMask rewrites the mask at path with clean borders. A single-level mask,
// such as a frame that is all ground, is saved border-fixed but unchanged
// otherwise.
func fixMask(path string, binarize bool, logger logrus.FieldLogger) error {
	m, err := imageio.LoadGray(path)
	if err != nil {
		return err
	}

	fixed := mask.FixBorders(m)
	if binarize {
		bilevel, err := mask.Binarize(fixed)
		switch {
		case errors.Is(err, mask.ErrDegenerateMask):
			logger.WithError(err).Warn("Mask has a single level, skipping binarisation")
		case err != nil:
			return err
		default:
			fixed = bilevel
		}
	}

	return imageio.SavePNG(path, fixed)
}
