package grid

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Colours of the rendered grid
var (
	EmptyCellColor  = color.RGBA{R: 255, A: 255}
	FilledCellColor = color.RGBA{G: 255, A: 255}
	CellTextColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Layout places grid cells on screen. Row 0 is drawn at the bottom so the
// picture matches the physical floor plan.
type Layout struct {
	Columns int
	Rows    int

	// CellWidth and CellHeight are the cell sizes in pixels
	CellWidth  int
	CellHeight int

	// Border is the gap between cells in pixels
	Border int
}

// NewLayout returns the default 60x60 pixel cells with a 5 pixel border
func NewLayout(columns, rows int) Layout {
	return Layout{
		Columns:    columns,
		Rows:       rows,
		CellWidth:  60,
		CellHeight: 60,
		Border:     5,
	}
}

// Size is the pixel size of the whole grid picture
func (l Layout) Size() image.Point {
	return image.Pt(l.Columns*(l.CellWidth+l.Border), l.Rows*(l.CellHeight+l.Border))
}

func (l Layout) screenRow(row int) int {
	return l.Rows - row - 1
}

// CellRect is the screen rectangle of (column, row)
func (l Layout) CellRect(column, row int) image.Rectangle {
	y := l.screenRow(row)
	return image.Rect(
		column*(l.CellWidth+l.Border)+l.Border/2,
		y*(l.CellHeight+l.Border)+l.Border/2,
		(column+1)*(l.CellWidth+l.Border),
		(y+1)*(l.CellHeight+l.Border),
	)
}

// textPoint is the baseline origin of the cell label
func (l Layout) textPoint(column, row int) image.Point {
	y := l.screenRow(row)
	return image.Pt(
		column*(l.CellWidth+l.Border)+l.Border/2,
		(y+1)*(l.CellHeight+l.Border)-l.Border,
	)
}

// CellAt returns the cell strictly inside which p lies. Points on cell
// edges or in the border gap hit nothing.
func (l Layout) CellAt(p image.Point) (column, row int, ok bool) {
	for c := 0; c < l.Columns; c++ {
		for r := 0; r < l.Rows; r++ {
			rect := l.CellRect(c, r)
			if rect.Min.X < p.X && p.X < rect.Max.X && rect.Min.Y < p.Y && p.Y < rect.Max.Y {
				return c, r, true
			}
		}
	}
	return 0, 0, false
}

// Render draws g: empty cells red, filled cells green, each labeled with
// its "column, row" coordinates.
func (l Layout) Render(g *Grid) *image.RGBA {
	size := l.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(CellTextColor),
		Face: basicfont.Face7x13,
	}

	for c := 0; c < l.Columns; c++ {
		for r := 0; r < l.Rows; r++ {
			fill := EmptyCellColor
			if g.Filled(c, r) {
				fill = FilledCellColor
			}
			draw.Draw(img, l.CellRect(c, r), image.NewUniform(fill), image.Point{}, draw.Src)

			tp := l.textPoint(c, r)
			d.Dot = fixed.P(tp.X, tp.Y)
			d.DrawString(cellLabel(c, r))
		}
	}

	return img
}

func cellLabel(column, row int) string {
	return fmt.Sprintf("%d, %d", column, row)
}
