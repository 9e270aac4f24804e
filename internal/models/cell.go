package models

import (
	"fmt"
	"time"
)

// GridCell is one labeled position of an image grid
type GridCell struct {
	// Column and Row are the logical grid coordinates, row 0 being the
	// row nearest the origin of the physical frame
	Column int
	Row    int

	// X and Y are the physical position of the cell in cm
	X int
	Y int

	// Heading is the camera heading in degrees, constant for a whole grid
	Heading int

	// Filename is the stored image name, relative to the output directory
	Filename string
}

// String returns the cell coordinates in the "column, row" form used on screen
func (c GridCell) String() string {
	return fmt.Sprintf("%d, %d", c.Column, c.Row)
}

// Waypoint is a single sample of a recorded trajectory
type Waypoint struct {
	// Time is the offset of the sample from the start of the recording
	Time time.Duration

	// X and Y are normalised [0,1] coordinates in the tracking frame
	X float64
	Y float64
}
