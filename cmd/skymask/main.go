// Command skymask composites each unwrapped image with its mask:
// <root>/unwrapped/unwrapped_<id>.jpg and <root>/mask/unwrapped_<id>_mask.png
// give <root>/skymask/unwrapped_<id>_skymask.png, where ground pixels keep
// the camera image and sky pixels are black.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

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
	fs := flag.NewFlagSet("skymask", flag.ContinueOnError)
	opts, err := cli.Parse(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Directory of route or image grid containing unwrapped images and masks expected")
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

	unwrappedDir, err := cli.RequireDir(opts.Root, cli.UnwrappedDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}
	maskDir, err := cli.RequireDir(opts.Root, cli.MaskDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}
	skyMaskDir, err := cli.EnsureDir(opts.Root, cli.SkyMaskDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}

	raws, err := imageio.Glob(unwrappedDir, "unwrapped_*.jpg")
	if err != nil {
		logger.WithError(err).Error("Failed to list images")
		return cli.ExitFailure
	}

	for _, rawPath := range raws {
		title := strings.TrimSuffix(filepath.Base(rawPath), filepath.Ext(rawPath))
		maskPath := filepath.Join(maskDir, title+"_mask.png")
		outPath := filepath.Join(skyMaskDir, title+"_skymask.png")

		if err := composite(rawPath, maskPath, outPath); err != nil {
			logger.WithError(err).WithField("image", rawPath).Error("Sky mask failed")
			return cli.ExitCode(err)
		}
		logger.WithFields(logrus.Fields{
			"image":   rawPath,
			"skymask": outPath,
		}).Info("Wrote sky mask")
	}
	return cli.ExitOK
}

func composite(rawPath, maskPath, outPath string) error {
	raw, err := imageio.Load(rawPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(maskPath); err != nil {
		return fmt.Errorf("%w: %s", cli.ErrMissingInput, maskPath)
	}
	m, err := imageio.LoadGray(maskPath)
	if err != nil {
		return err
	}

	sky, err := mask.SkyMask(m, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", maskPath, err)
	}
	return imageio.SavePNG(outPath, sky)
}
