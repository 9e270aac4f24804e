// Package grid assembles image-grid datasets: it assigns captured images to
// the cells of a rectangular sampling grid, stores each one under a
// pose-derived filename and writes the pose manifest consumed by training
// and evaluation.
package grid

import (
	"errors"
	"fmt"

	"librarysquare/internal/models"
)

var (
	// ErrInvalidGeometry is returned for a geometry with a non-positive size
	ErrInvalidGeometry = errors.New("invalid grid geometry")

	// ErrOutOfBounds is returned for a cell outside the grid
	ErrOutOfBounds = errors.New("cell outside grid")
)

// Geometry describes a rectangular grid of physical sampling cells.
// It is passed by value and never modified once an Assembler holds it.
type Geometry struct {
	// Columns and Rows are the grid dimensions
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`

	// StepColumns and StepRows are the number of floor slabs per cell
	StepColumns int `yaml:"stepColumns"`
	StepRows    int `yaml:"stepRows"`

	// CellScaleX and CellScaleY are the slab side lengths in cm
	CellScaleX int `yaml:"cellScaleX"`
	CellScaleY int `yaml:"cellScaleY"`

	// Heading is the camera heading in degrees relative to the 0-angle,
	// shared by every cell
	Heading int `yaml:"heading"`
}

// DefaultGeometry is the library square evening grid: 13x15 cells of
// 3x3 slabs, 40 cm each, camera facing -90 degrees.
func DefaultGeometry() Geometry {
	return Geometry{
		Columns:     13,
		Rows:        15,
		StepColumns: 3,
		StepRows:    3,
		CellScaleX:  40,
		CellScaleY:  40,
		Heading:     -90,
	}
}

// Validate checks that every size is positive
func (g Geometry) Validate() error {
	switch {
	case g.Columns <= 0 || g.Rows <= 0:
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidGeometry, g.Columns, g.Rows)
	case g.StepColumns <= 0 || g.StepRows <= 0:
		return fmt.Errorf("%w: step %dx%d", ErrInvalidGeometry, g.StepColumns, g.StepRows)
	case g.CellScaleX <= 0 || g.CellScaleY <= 0:
		return fmt.Errorf("%w: scale %dx%d", ErrInvalidGeometry, g.CellScaleX, g.CellScaleY)
	}
	return nil
}

// Capacity is the number of cells in the grid
func (g Geometry) Capacity() int {
	return g.Columns * g.Rows
}

// Contains reports whether (column, row) lies inside the grid
func (g Geometry) Contains(column, row int) bool {
	return column >= 0 && column < g.Columns && row >= 0 && row < g.Rows
}

// CellSizeX is the physical width of a cell in cm
func (g Geometry) CellSizeX() int {
	return g.StepColumns * g.CellScaleX
}

// CellSizeY is the physical height of a cell in cm
func (g Geometry) CellSizeY() int {
	return g.StepRows * g.CellScaleY
}

// Cell returns the pose record of (column, row)
func (g Geometry) Cell(column, row int) (models.GridCell, error) {
	if !g.Contains(column, row) {
		return models.GridCell{}, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, column, row, g.Columns, g.Rows)
	}

	x := column * g.CellSizeX()
	y := row * g.CellSizeY()
	return models.GridCell{
		Column:   column,
		Row:      row,
		X:        x,
		Y:        y,
		Heading:  g.Heading,
		Filename: CellFilename(x, y),
	}, nil
}

// CellFilename is the stored image name of the cell at physical (x, y)
func CellFilename(x, y int) string {
	return fmt.Sprintf("%d_%d.jpg", x, y)
}
