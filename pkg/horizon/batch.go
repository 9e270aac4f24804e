package horizon

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"librarysquare/internal/imageio"
)

// MaskPattern selects the mask files a Processor works on
const MaskPattern = "unwrapped_*_mask.png"

// Processor extracts horizons for every mask of a dataset directory
type Processor struct {
	// MaskDir holds the unwrapped_<id>_mask.png inputs
	MaskDir string

	// HorizonDir receives the unwrapped_<id>_horizon.png outputs
	HorizonDir string

	// Workers bounds the number of masks processed at once.
	// Zero or less means one per CPU.
	Workers int

	Logger logrus.FieldLogger
}

// HorizonName maps a mask filename to its horizon filename
func HorizonName(maskPath string) string {
	title := strings.TrimSuffix(filepath.Base(maskPath), filepath.Ext(maskPath))
	return strings.TrimSuffix(title, "_mask") + "_horizon.png"
}

// Run processes every mask and returns how many horizons were written.
// The first failure cancels the masks not yet started.
func (p *Processor) Run(ctx context.Context) (int, error) {
	masks, err := imageio.Glob(p.MaskDir, MaskPattern)
	if err != nil {
		return 0, fmt.Errorf("failed to list masks: %w", err)
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, maskPath := range masks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.processMask(maskPath)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(masks), nil
}

func (p *Processor) processMask(maskPath string) error {
	mask, err := imageio.LoadGray(maskPath)
	if err != nil {
		return fmt.Errorf("failed to load mask: %w", err)
	}

	horizonPath := filepath.Join(p.HorizonDir, HorizonName(maskPath))
	if err := imageio.SavePNG(horizonPath, Extract(mask)); err != nil {
		return fmt.Errorf("failed to save horizon %s: %w", horizonPath, err)
	}

	p.logger().WithFields(logrus.Fields{
		"mask":    maskPath,
		"horizon": horizonPath,
		"width":   mask.Bounds().Dx(),
	}).Info("Extracted horizon")
	return nil
}

func (p *Processor) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}
