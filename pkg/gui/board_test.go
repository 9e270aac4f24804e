package gui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"librarysquare/pkg/grid"
)

func TestBoardPoint(t *testing.T) {
	layout := image.Pt(130, 260)

	got := boardPoint(fyne.NewPos(65, 130), fyne.NewSize(130, 260), layout)
	if got != image.Pt(65, 130) {
		t.Errorf("Expected identity mapping, got %v", got)
	}

	// board stretched to twice its size
	got = boardPoint(fyne.NewPos(130, 260), fyne.NewSize(260, 520), layout)
	if got != image.Pt(65, 130) {
		t.Errorf("Expected scaled mapping (65, 130), got %v", got)
	}

	if got := boardPoint(fyne.NewPos(1, 1), fyne.NewSize(0, 0), layout); got != image.Pt(-1, -1) {
		t.Errorf("Expected no point for empty board, got %v", got)
	}
}

func TestEventKind(t *testing.T) {
	if k, ok := eventKind(desktop.MouseButtonPrimary); !ok || k != grid.EventSelect {
		t.Errorf("Primary button should select")
	}
	if k, ok := eventKind(desktop.MouseButtonTertiary); !ok || k != grid.EventRemove {
		t.Errorf("Middle button should remove")
	}
}

func TestGridBoardMouseDown(t *testing.T) {
	test.NewTempApp(t)

	var got []grid.Event
	layout := grid.NewLayout(2, 3)
	board := NewGridBoard(layout, func(ev grid.Event) { got = append(got, ev) })
	size := layout.Size()
	board.Resize(fyne.NewSize(float32(size.X), float32(size.Y)))

	// top left cell is column 0, row 2
	board.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 30)},
		Button:     desktop.MouseButtonPrimary,
	})
	// border gap hits nothing
	board.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(1, 1)},
		Button:     desktop.MouseButtonPrimary,
	})
	board.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(95, 160)},
		Button:     desktop.MouseButtonTertiary,
	})

	want := []grid.Event{
		{Kind: grid.EventSelect, Column: 0, Row: 2},
		{Kind: grid.EventRemove, Column: 1, Row: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
