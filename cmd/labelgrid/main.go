// Command labelgrid assigns the images of an image-grid capture to their
// grid cells, stores each under its x_y.jpg pose name and writes
// grid_data.csv.
//
// In auto mode images are taken in name order, row by row. In manual mode
// a window shows each image next to the grid: left click an empty cell to
// assign the image, left click a filled cell to preview it, middle click a
// filled cell to remove it, Esc to stop. With -view the existing manifest is
// drawn to grid_overview.png instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"librarysquare/internal/cli"
	"librarysquare/internal/imageio"
	"librarysquare/internal/logging"
	"librarysquare/pkg/config"
	"librarysquare/pkg/grid"
	"librarysquare/pkg/gui"
)

const (
	appID        = "uk.ac.sussex.librarysquare.labelgrid"
	overviewFile = "grid_overview.png"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("labelgrid", flag.ContinueOnError)
	manual := fs.Bool("manual", false, "Label interactively instead of in scan order")
	view := fs.Bool("view", false, "Render the existing manifest instead of labeling")
	opts, err := cli.Parse(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Directory of image grid containing unwrapped images expected")
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

	geom, err := cfg.Geometry()
	if err != nil {
		logger.WithError(err).Error("Invalid grid geometry")
		return cli.ExitFailure
	}
	store := grid.NewDirStore(filepath.Join(opts.Root, cfg.Grid.OutputDir), cfg.Grid.JPEGQuality)

	if *view {
		return runView(store, geom, logger)
	}

	inputDir, err := cli.RequireDir(opts.Root, cfg.Grid.InputDir)
	if err != nil {
		logger.Error(err)
		return cli.ExitCode(err)
	}
	sources, err := grid.FileSources(inputDir)
	if err != nil {
		logger.WithError(err).Error("Failed to list images")
		return cli.ExitFailure
	}
	if len(sources) == 0 {
		logger.Errorf("%v: no images in %s", cli.ErrMissingInput, inputDir)
		return cli.ExitFailure
	}

	asm, err := grid.NewAssembler(geom, store, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create assembler")
		return cli.ExitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.WithFields(logrus.Fields{
		"images":  len(sources),
		"columns": geom.Columns,
		"rows":    geom.Rows,
		"output":  store.Dir,
	}).Info("Labeling image grid")

	var m grid.Manifest
	if *manual || !cfg.Grid.AutoMode {
		m, err = runManual(ctx, asm, sources, logger)
	} else {
		m, err = asm.RunAuto(ctx, sources)
	}
	if err != nil {
		if errors.Is(err, grid.ErrInsufficientImages) {
			logger.WithError(err).Error("Grid not labeled, nothing written")
		} else {
			logger.WithError(err).Error("Labeling failed")
		}
		return cli.ExitFailure
	}

	logger.WithFields(logrus.Fields{
		"cells":    m.Len(),
		"manifest": store.Path(grid.ManifestFile),
	}).Info("Labeling completed")
	return cli.ExitOK
}

// runManual runs the session on its own goroutine while the window owns
// the main goroutine
func runManual(ctx context.Context, asm *grid.Assembler, sources []grid.Source, logger logrus.FieldLogger) (grid.Manifest, error) {
	a := app.NewWithID(appID)
	labeler := gui.NewLabeler(a, asm.Geometry(), logger)

	type result struct {
		m   grid.Manifest
		err error
	}
	done := make(chan result, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		m, err := asm.RunManual(ctx, sources, labeler)
		done <- result{m, err}
		labeler.Quit()
	}()

	labeler.ShowAndRun()
	// the UI is gone; the session finalizes at its next event
	cancel()
	res := <-done
	return res.m, res.err
}

func runView(store *grid.DirStore, geom grid.Geometry, logger logrus.FieldLogger) int {
	m, err := store.ReadManifest(geom)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", cli.ErrMissingInput, store.Path(grid.ManifestFile))
		}
		logger.WithError(err).Error("Failed to read manifest")
		return cli.ExitFailure
	}

	g, err := m.Grid(geom)
	if err != nil {
		logger.WithError(err).Error("Manifest does not fit the grid")
		return cli.ExitFailure
	}

	missing := 0
	for _, c := range m.Cells {
		if _, err := os.Stat(store.Path(c.Filename)); err != nil {
			logger.WithField("cell", c.String()).Warnf("Image %s missing", c.Filename)
			missing++
		}
	}

	out := store.Path(overviewFile)
	if err := imageio.SavePNG(out, grid.NewLayout(geom.Columns, geom.Rows).Render(g)); err != nil {
		logger.WithError(err).Error("Failed to write overview")
		return cli.ExitFailure
	}

	logger.WithFields(logrus.Fields{
		"cells":    g.Len(),
		"capacity": geom.Capacity(),
		"missing":  missing,
		"overview": out,
	}).Info("Rendered grid overview")
	return cli.ExitOK
}
