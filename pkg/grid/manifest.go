package grid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"librarysquare/internal/models"
)

// ManifestFile is the name of the manifest written next to the cell images
const ManifestFile = "grid_data.csv"

// ManifestHeader is the first row of every manifest
var ManifestHeader = []string{"x [cm]", "y [cm]", "heading [degs]", "filename"}

// Manifest is the ordered pose to filename table of an assembled grid
type Manifest struct {
	Cells []models.GridCell
}

// Len is the number of rows in the manifest
func (m Manifest) Len() int {
	return len(m.Cells)
}

// WriteCSV writes the header and one row per cell to w
func (m Manifest) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ManifestHeader); err != nil {
		return err
	}
	for _, c := range m.Cells {
		row := []string{
			strconv.Itoa(c.X),
			strconv.Itoa(c.Y),
			strconv.Itoa(c.Heading),
			c.Filename,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadManifest parses a manifest written by WriteCSV. Grid coordinates are
// recovered from the physical position using geom.
func ReadManifest(r io.Reader, geom Geometry) (Manifest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ManifestHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, fmt.Errorf("empty manifest")
		}
		return Manifest{}, fmt.Errorf("error reading manifest header: %w", err)
	}
	for i, h := range ManifestHeader {
		if header[i] != h {
			return Manifest{}, fmt.Errorf("unexpected manifest column %q, want %q", header[i], h)
		}
	}

	var m Manifest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("error reading manifest: %w", err)
		}

		cell, err := parseManifestRow(rec, geom)
		if err != nil {
			return Manifest{}, fmt.Errorf("manifest line %d: %w", line, err)
		}
		m.Cells = append(m.Cells, cell)
	}
	return m, nil
}

func parseManifestRow(rec []string, geom Geometry) (models.GridCell, error) {
	var vals [3]int
	for i := range vals {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return models.GridCell{}, fmt.Errorf("invalid %s: %w", ManifestHeader[i], err)
		}
		vals[i] = v
	}

	x, y := vals[0], vals[1]
	if x%geom.CellSizeX() != 0 || y%geom.CellSizeY() != 0 {
		return models.GridCell{}, fmt.Errorf("position (%d, %d) is not on the grid", x, y)
	}
	cell, err := geom.Cell(x/geom.CellSizeX(), y/geom.CellSizeY())
	if err != nil {
		return models.GridCell{}, err
	}
	cell.Heading = vals[2]
	cell.Filename = rec[3]
	return cell, nil
}

// Grid rebuilds the grid holding the manifest cells
func (m Manifest) Grid(geom Geometry) (*Grid, error) {
	g := NewGrid(geom)
	for _, c := range m.Cells {
		if err := g.Set(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}
