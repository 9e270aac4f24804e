// Command synchronise extracts one route video frame per trajectory sample.
// Frames are written to <root>/<index>.jpg and the pixel trajectory to
// <root>/route.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"librarysquare/internal/cli"
	"librarysquare/internal/cvio"
	"librarysquare/internal/logging"
	"librarysquare/pkg/config"
	"librarysquare/pkg/route"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("synchronise", flag.ContinueOnError)
	videoPath := fs.String("video", "", "Route video (default: from config)")
	routePath := fs.String("route", "", "Raw time,x,y route CSV (default: from config)")
	opts, err := cli.Parse(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Output directory for the processed route expected")
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

	if *videoPath == "" {
		*videoPath = cfg.Sync.Video
	}
	if *routePath == "" {
		*routePath = cfg.Sync.RouteCSV
	}

	waypointsFile, err := os.Open(*routePath)
	if err != nil {
		logger.WithError(err).Errorf("%v: route %q", cli.ErrMissingInput, *routePath)
		return cli.ExitFailure
	}
	waypoints, err := route.ReadWaypoints(waypointsFile)
	waypointsFile.Close()
	if err != nil {
		logger.WithError(err).Error("Failed to read route")
		return cli.ExitFailure
	}

	video, err := cvio.OpenVideo(*videoPath)
	if err != nil {
		logger.WithError(err).Errorf("%v: video %q", cli.ErrMissingInput, *videoPath)
		return cli.ExitFailure
	}
	defer video.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &route.Synchroniser{
		Source: video,
		Offset: cfg.SyncOffset(),
		Bounds: cfg.Sync.Bounds,
		OutDir: opts.Root,
		Logger: logger,
	}
	n, err := s.Run(ctx, waypoints)
	if err != nil {
		logger.WithError(err).WithField("frames", n).Error("Synchronisation failed")
		return cli.ExitFailure
	}

	logger.WithFields(logrus.Fields{
		"frames": n,
		"route":  *routePath,
		"video":  *videoPath,
	}).Info("Synchronisation completed")
	return cli.ExitOK
}
