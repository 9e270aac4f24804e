package grid

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"librarysquare/internal/models"
)

var (
	// ErrInsufficientImages is returned by RunAuto when there are fewer
	// sources than grid cells
	ErrInsufficientImages = errors.New("insufficient images for grid")

	// ErrFinalized is returned when a finished run is used again
	ErrFinalized = errors.New("assembly already finalized")
)

// Assembler assigns images to grid cells, persists them through a Store and
// writes the manifest once at the end of the run. One Assembler serves one
// run and is driven by a single goroutine.
type Assembler struct {
	geom      Geometry
	store     Store
	grid      *Grid
	logger    logrus.FieldLogger
	finalized bool
}

// NewAssembler creates an assembler for geom writing to store
func NewAssembler(geom Geometry, store Store, logger logrus.FieldLogger) (*Assembler, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Assembler{
		geom:   geom,
		store:  store,
		grid:   NewGrid(geom),
		logger: logger,
	}, nil
}

// Geometry returns the assembler's geometry
func (a *Assembler) Geometry() Geometry {
	return a.geom
}

// Grid returns the cells assigned so far
func (a *Assembler) Grid() *Grid {
	return a.grid
}

// Assign stores img as the image of the empty cell (column, row)
func (a *Assembler) Assign(column, row int, img image.Image) (models.GridCell, error) {
	if a.finalized {
		return models.GridCell{}, ErrFinalized
	}

	cell, err := a.geom.Cell(column, row)
	if err != nil {
		return models.GridCell{}, err
	}
	if a.grid.Filled(column, row) {
		return models.GridCell{}, fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, column, row)
	}

	if err := a.store.Save(cell.Filename, img); err != nil {
		return models.GridCell{}, fmt.Errorf("failed to store %s: %w", cell.Filename, err)
	}
	if err := a.grid.Set(cell); err != nil {
		return models.GridCell{}, err
	}

	a.logger.WithFields(logrus.Fields{
		"cell":     cell.String(),
		"x":        cell.X,
		"y":        cell.Y,
		"filename": cell.Filename,
	}).Debug("Assigned cell")
	return cell, nil
}

// Remove deletes the stored image of (column, row) and empties the cell
func (a *Assembler) Remove(column, row int) (models.GridCell, error) {
	if a.finalized {
		return models.GridCell{}, ErrFinalized
	}

	cell, ok := a.grid.Cell(column, row)
	if !ok {
		if !a.geom.Contains(column, row) {
			return models.GridCell{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, column, row)
		}
		return models.GridCell{}, fmt.Errorf("%w: (%d, %d)", ErrCellEmpty, column, row)
	}

	if err := a.store.Remove(cell.Filename); err != nil {
		return models.GridCell{}, fmt.Errorf("failed to remove %s: %w", cell.Filename, err)
	}
	if _, err := a.grid.Clear(column, row); err != nil {
		return models.GridCell{}, err
	}

	a.logger.WithFields(logrus.Fields{
		"cell":     cell.String(),
		"filename": cell.Filename,
	}).Info("Removed cell")
	return cell, nil
}

// RunAuto assigns sources row by row: the k-th source goes to row
// k / Columns, column k % Columns. Sources beyond the grid capacity are
// ignored. With fewer sources than cells nothing is written and
// ErrInsufficientImages is returned.
//
// Cancelling ctx stops the scan; the cells assigned so far are still
// written to the manifest.
func (a *Assembler) RunAuto(ctx context.Context, sources []Source) (Manifest, error) {
	capacity := a.geom.Capacity()
	if len(sources) < capacity {
		return Manifest{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientImages, len(sources), capacity)
	}

	for k := 0; k < capacity; k++ {
		if ctx.Err() != nil {
			a.logger.WithField("assigned", a.grid.Len()).Warn("Interrupted, writing partial manifest")
			break
		}

		row, column := k/a.geom.Columns, k%a.geom.Columns
		src := sources[k]
		img, err := src.Open()
		if err != nil {
			return Manifest{}, fmt.Errorf("failed to load %s: %w", src.Name(), err)
		}
		cell, err := a.Assign(column, row, img)
		if err != nil {
			return Manifest{}, err
		}

		a.logger.WithFields(logrus.Fields{
			"source":   src.Name(),
			"filename": cell.Filename,
		}).Info("Labeled image")
	}

	return a.Finalize()
}

// Finalize writes the manifest of the filled cells. It succeeds once per run.
func (a *Assembler) Finalize() (Manifest, error) {
	if a.finalized {
		return Manifest{}, ErrFinalized
	}

	m := a.grid.Manifest()
	if err := a.store.WriteManifest(m); err != nil {
		return Manifest{}, fmt.Errorf("failed to write manifest: %w", err)
	}
	a.finalized = true

	a.logger.WithFields(logrus.Fields{
		"cells":    m.Len(),
		"capacity": a.geom.Capacity(),
	}).Info("Wrote manifest")
	return m, nil
}
