// Package route pairs a recorded trajectory with frames of the route video.
package route

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"librarysquare/internal/models"
)

// Bounds is the pixel rectangle of the tracking frame that normalised
// trajectory coordinates map onto
type Bounds struct {
	MinX float64 `yaml:"minX"`
	MinY float64 `yaml:"minY"`
	MaxX float64 `yaml:"maxX"`
	MaxY float64 `yaml:"maxY"`
}

// DefaultBounds is the library square tracking area
func DefaultBounds() Bounds {
	return Bounds{MinX: 620, MinY: 200, MaxX: 880, MaxY: 480}
}

// Transform maps normalised (x, y) into the bounds. The y axis is flipped:
// y = 0 is the bottom edge.
func (b Bounds) Transform(x, y float64) (float64, float64) {
	return b.MinX + x*(b.MaxX-b.MinX), b.MaxY - y*(b.MaxY-b.MinY)
}

// ReadWaypoints parses a raw route CSV of time_ms,x,y rows
func ReadWaypoints(r io.Reader) ([]models.Waypoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var waypoints []models.Waypoint
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading route: %w", err)
		}
		if len(rec) != 3 {
			return nil, fmt.Errorf("route line %d: expected 3 fields, got %d", line, len(rec))
		}

		var vals [3]float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("route line %d: %w", line, err)
			}
			vals[i] = v
		}

		waypoints = append(waypoints, models.Waypoint{
			Time: time.Duration(vals[0] * float64(time.Millisecond)),
			X:    vals[1],
			Y:    vals[2],
		})
	}
	return waypoints, nil
}
