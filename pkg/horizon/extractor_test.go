package horizon

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// createMask returns a white mask with the listed (column -> rows) set to 0
func createMask(width, height int, background map[int][]int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	for c, rows := range background {
		for _, r := range rows {
			mask.SetGray(c, r, color.Gray{Y: 0})
		}
	}
	return mask
}

func TestExtractShape(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"regular", 40, 20},
		{"single column", 1, 20},
		{"single row", 40, 1},
		{"single pixel", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Extract(createMask(tt.width, tt.height, nil))
			if profile.Bounds() != image.Rect(0, 0, tt.width, 1) {
				t.Errorf("Expected bounds %dx1, got %v", tt.width, profile.Bounds())
			}
		})
	}
}

func TestExtractRounding(t *testing.T) {
	mask := createMask(3, 8, map[int][]int{
		0: {2, 3},
		1: {0, 1, 2, 3},
		2: {4},
	})

	profile := Extract(mask)
	want := []uint8{3, 2, 4}
	for c, w := range want {
		if got := profile.GrayAt(c, 0).Y; got != w {
			t.Errorf("Column %d: expected %d, got %d", c, w, got)
		}
	}
}

func TestExtractNoBoundary(t *testing.T) {
	mask := createMask(4, 10, map[int][]int{1: {5, 6, 7}})

	profile := Extract(mask)
	for _, c := range []int{0, 2, 3} {
		if got := profile.GrayAt(c, 0).Y; got != 0 {
			t.Errorf("Column %d has no boundary, expected 0, got %d", c, got)
		}
	}
	if got := profile.GrayAt(1, 0).Y; got != 6 {
		t.Errorf("Expected 6 for column 1, got %d", got)
	}
}

func TestExtractClampsTallMasks(t *testing.T) {
	rows := []int{300, 310}
	mask := createMask(1, 400, map[int][]int{0: rows})

	if got := Extract(mask).GrayAt(0, 0).Y; got != 255 {
		t.Errorf("Expected clamped value 255, got %d", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	mask := createMask(16, 16, nil)
	for c := 0; c < 16; c++ {
		for r := 0; r < 16; r++ {
			if (c*7+r*3)%5 == 0 {
				mask.SetGray(c, r, color.Gray{Y: 0})
			}
		}
	}

	first := Extract(mask)
	second := Extract(mask)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("Expected identical profiles for the same mask")
	}
}

func TestExtractOffsetBounds(t *testing.T) {
	full := createMask(6, 6, map[int][]int{3: {4, 5}})
	sub := full.SubImage(image.Rect(2, 2, 6, 6)).(*image.Gray)

	profile := Extract(sub)
	if profile.Bounds().Dx() != 4 {
		t.Fatalf("Expected width 4, got %d", profile.Bounds().Dx())
	}
	// rows 4 and 5 of the full mask are rows 2 and 3 of the sub image
	if got := profile.GrayAt(1, 0).Y; got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
}
