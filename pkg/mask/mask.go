// Package mask holds the clean-up and compositing steps applied to ground/sky
// segmentation masks before horizon extraction.
package mask

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// Mask levels
const (
	Sky    = 0
	Ground = 255
)

var (
	// ErrDegenerateMask is returned for a mask holding a single value
	ErrDegenerateMask = errors.New("degenerate mask: single region only")

	// ErrSizeMismatch is returned when a mask and its raw image differ in size
	ErrSizeMismatch = errors.New("mask and image sizes differ")
)

// clone copies m into a new origin-based image
func clone(m *image.Gray) *image.Gray {
	b := m.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), m, b.Min, draw.Src)
	return out
}

// FixBorders returns a copy of m whose outermost rows and columns are
// replaced by their inner neighbours. Segmentation leaves artefacts along the
// frame edge; copying the adjacent line over them keeps them out of the
// horizon. The top and bottom rows are fixed first, excluding the corners,
// then the left and right columns. Masks narrower or shorter than 3 pixels
// are returned unchanged.
func FixBorders(m *image.Gray) *image.Gray {
	out := clone(m)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if w < 3 || h < 3 {
		return out
	}

	for x := 1; x < w-1; x++ {
		out.SetGray(x, 0, out.GrayAt(x, 1))
		out.SetGray(x, h-1, out.GrayAt(x, h-2))
	}
	for y := 0; y < h; y++ {
		out.SetGray(0, y, out.GrayAt(1, y))
		out.SetGray(w-1, y, out.GrayAt(w-2, y))
	}

	return out
}

// Binarize maps every pixel of m to Sky or Ground, splitting at the midpoint
// of its darkest and brightest values. A mask with a single value has no
// midpoint and fails with ErrDegenerateMask.
func Binarize(m *image.Gray) (*image.Gray, error) {
	out := clone(m)
	if len(out.Pix) == 0 {
		return nil, ErrDegenerateMask
	}

	lo, hi := out.Pix[0], out.Pix[0]
	for _, v := range out.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		return nil, ErrDegenerateMask
	}

	mid := (int(lo) + int(hi)) / 2
	for i, v := range out.Pix {
		if int(v) > mid {
			out.Pix[i] = Ground
		} else {
			out.Pix[i] = Sky
		}
	}
	return out, nil
}

// SkyMask composites raw onto m: ground pixels take the raw image colour,
// all other pixels keep the mask value as gray.
func SkyMask(m *image.Gray, raw image.Image) (*image.RGBA, error) {
	mb, rb := m.Bounds(), raw.Bounds()
	if mb.Dx() != rb.Dx() || mb.Dy() != rb.Dy() {
		return nil, ErrSizeMismatch
	}

	out := image.NewRGBA(image.Rect(0, 0, mb.Dx(), mb.Dy()))
	for y := 0; y < mb.Dy(); y++ {
		for x := 0; x < mb.Dx(); x++ {
			v := m.GrayAt(mb.Min.X+x, mb.Min.Y+y).Y
			if v == Ground {
				out.Set(x, y, raw.At(rb.Min.X+x, rb.Min.Y+y))
			} else {
				out.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
			}
		}
	}
	return out, nil
}
