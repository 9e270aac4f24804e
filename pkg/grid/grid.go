package grid

import (
	"errors"
	"fmt"

	"librarysquare/internal/models"
)

var (
	// ErrCellOccupied is returned when assigning to a filled cell
	ErrCellOccupied = errors.New("cell already filled")

	// ErrCellEmpty is returned when removing an empty cell
	ErrCellEmpty = errors.New("cell is empty")
)

// Grid is the collection of filled cells of one assembly run.
// It is not safe for concurrent use.
type Grid struct {
	geom  Geometry
	cells []*models.GridCell
	count int
}

// NewGrid returns an empty grid of the given geometry
func NewGrid(geom Geometry) *Grid {
	return &Grid{
		geom:  geom,
		cells: make([]*models.GridCell, geom.Capacity()),
	}
}

// Geometry returns the grid geometry
func (g *Grid) Geometry() Geometry {
	return g.geom
}

func (g *Grid) index(column, row int) (int, error) {
	if !g.geom.Contains(column, row) {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, column, row)
	}
	return column*g.geom.Rows + row, nil
}

// Set records cell at its (Column, Row) position
func (g *Grid) Set(cell models.GridCell) error {
	i, err := g.index(cell.Column, cell.Row)
	if err != nil {
		return err
	}
	if g.cells[i] != nil {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, cell.Column, cell.Row)
	}
	g.cells[i] = &cell
	g.count++
	return nil
}

// Clear empties (column, row) and returns the cell it held
func (g *Grid) Clear(column, row int) (models.GridCell, error) {
	i, err := g.index(column, row)
	if err != nil {
		return models.GridCell{}, err
	}
	cell := g.cells[i]
	if cell == nil {
		return models.GridCell{}, fmt.Errorf("%w: (%d, %d)", ErrCellEmpty, column, row)
	}
	g.cells[i] = nil
	g.count--
	return *cell, nil
}

// Cell returns the cell at (column, row) and whether it is filled
func (g *Grid) Cell(column, row int) (models.GridCell, bool) {
	i, err := g.index(column, row)
	if err != nil || g.cells[i] == nil {
		return models.GridCell{}, false
	}
	return *g.cells[i], true
}

// Filled reports whether (column, row) holds a cell
func (g *Grid) Filled(column, row int) bool {
	_, ok := g.Cell(column, row)
	return ok
}

// Len is the number of filled cells
func (g *Grid) Len() int {
	return g.count
}

// Clone returns an independent copy of g
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.geom)
	for i, c := range g.cells {
		if c != nil {
			cell := *c
			out.cells[i] = &cell
		}
	}
	out.count = g.count
	return out
}

// Manifest lists the filled cells, columns ascending and, within a column,
// rows descending. Downstream consumers depend on this order.
func (g *Grid) Manifest() Manifest {
	m := Manifest{Cells: make([]models.GridCell, 0, g.count)}
	for c := 0; c < g.geom.Columns; c++ {
		for r := g.geom.Rows - 1; r >= 0; r-- {
			if cell, ok := g.Cell(c, r); ok {
				m.Cells = append(m.Cells, cell)
			}
		}
	}
	return m
}
