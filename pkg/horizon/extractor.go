// Package horizon reduces ground/sky segmentation masks to one-pixel-tall
// horizon profiles.
package horizon

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Background is the mask value marking horizon (sky side) pixels
const Background = 0

// Extract builds the horizon profile of mask.
//
// The profile is a 1xW image where W is the mask width. Each column holds the
// mean row index of the background pixels found in that mask column, rounded
// half up and clamped to [0,255]. Averaging suppresses the speckle left by
// segmentation errors better than taking the top or bottom-most pixel, at the
// cost of bias when the noise is one-sided.
//
// A column with no background pixel is assumed to have its horizon at the top
// of the frame and is stored as 0. This is wrong for frames where the ground,
// not the sky, is missing from the column.
func Extract(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	profile := image.NewGray(image.Rect(0, 0, b.Dx(), 1))

	rows := make([]float64, 0, b.Dy())
	for c := 0; c < b.Dx(); c++ {
		rows = rows[:0]
		for r := 0; r < b.Dy(); r++ {
			if mask.GrayAt(b.Min.X+c, b.Min.Y+r).Y == Background {
				rows = append(rows, float64(r))
			}
		}

		if len(rows) > 0 {
			profile.Pix[c] = clampByte(math.Floor(stat.Mean(rows, nil) + 0.5))
		}
	}

	return profile
}

func clampByte(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
