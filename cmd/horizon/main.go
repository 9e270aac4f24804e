// Command horizon writes the horizon profile of every mask of a route or
// image grid: <root>/mask/unwrapped_<id>_mask.png becomes
// <root>/horizon/unwrapped_<id>_horizon.png.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"librarysquare/internal/cli"
	"librarysquare/internal/logging"
	"librarysquare/pkg/config"
	"librarysquare/pkg/horizon"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("horizon", flag.ContinueOnError)
	workers := fs.Int("workers", 0, "Masks processed at once (default: from config)")
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

	maskDir, err := cli.RequireDir(opts.Root, cli.MaskDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}
	horizonDir, err := cli.EnsureDir(opts.Root, cli.HorizonDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := &horizon.Processor{
		MaskDir:    maskDir,
		HorizonDir: horizonDir,
		Workers:    cfg.Horizon.Workers,
		Logger:     logger,
	}
	if *workers > 0 {
		p.Workers = *workers
	}

	start := time.Now()
	n, err := p.Run(ctx)
	if err != nil {
		logger.WithError(err).Error("Horizon extraction failed")
		return cli.ExitCode(err)
	}

	logger.WithFields(logrus.Fields{
		"horizons": n,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("Horizon extraction completed")
	return cli.ExitOK
}
