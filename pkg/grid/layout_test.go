package grid

import (
	"image"
	"testing"
)

func TestLayoutSize(t *testing.T) {
	l := NewLayout(13, 15)
	if got := l.Size(); got != image.Pt(13*65, 15*65) {
		t.Errorf("Expected %v, got %v", image.Pt(13*65, 15*65), got)
	}
}

func TestLayoutCellAt(t *testing.T) {
	l := NewLayout(3, 4)

	tests := []struct {
		name      string
		point     image.Point
		column    int
		row       int
		wantFound bool
	}{
		// row 0 is drawn at the bottom of the picture
		{"top left", image.Pt(30, 30), 0, 3, true},
		{"bottom left", image.Pt(30, 4*65-30), 0, 0, true},
		{"middle", image.Pt(65+30, 65+30), 1, 2, true},
		{"on cell edge", image.Pt(2, 30), 0, 0, false},
		{"outside", image.Pt(3*65+10, 10), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r, ok := l.CellAt(tt.point)
			if ok != tt.wantFound {
				t.Fatalf("Expected found=%v, got %v", tt.wantFound, ok)
			}
			if ok && (c != tt.column || r != tt.row) {
				t.Errorf("Expected (%d, %d), got (%d, %d)", tt.column, tt.row, c, r)
			}
		})
	}
}

func TestLayoutCellRectRoundTrip(t *testing.T) {
	l := NewLayout(4, 5)
	for c := 0; c < 4; c++ {
		for r := 0; r < 5; r++ {
			rect := l.CellRect(c, r)
			center := rect.Min.Add(rect.Max).Div(2)
			gc, gr, ok := l.CellAt(center)
			if !ok || gc != c || gr != r {
				t.Errorf("Center of (%d, %d) maps to (%d, %d, %v)", c, r, gc, gr, ok)
			}
		}
	}
}

func TestLayoutRender(t *testing.T) {
	geom := smallGeometry(2, 2)
	g := NewGrid(geom)
	if err := g.Set(mustCell(t, geom, 1, 0)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	l := NewLayout(2, 2)
	img := l.Render(g)
	if img.Bounds().Size() != l.Size() {
		t.Fatalf("Expected size %v, got %v", l.Size(), img.Bounds().Size())
	}

	// sample near the top of each cell, away from the label
	filled := l.CellRect(1, 0)
	if got := img.RGBAAt(filled.Min.X+30, filled.Min.Y+5); got != FilledCellColor {
		t.Errorf("Expected filled colour, got %v", got)
	}
	empty := l.CellRect(0, 1)
	if got := img.RGBAAt(empty.Min.X+30, empty.Min.Y+5); got != EmptyCellColor {
		t.Errorf("Expected empty colour, got %v", got)
	}

	// label pixels are drawn in the text colour
	found := false
	for y := filled.Max.Y - 20; y < filled.Max.Y && !found; y++ {
		for x := filled.Min.X; x < filled.Max.X; x++ {
			if img.RGBAAt(x, y) == CellTextColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("Expected cell label to be drawn")
	}
}
