// Package gui is the desktop front end of manual grid labeling.
package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"librarysquare/pkg/grid"
)

// GridBoard draws the labeling grid and turns clicks on cells into events:
// the primary button selects a cell, the middle or secondary button removes it.
type GridBoard struct {
	widget.BaseWidget

	layout  grid.Layout
	image   *canvas.Image
	onEvent func(grid.Event)
}

// NewGridBoard creates a board for layout reporting clicks to onEvent
func NewGridBoard(layout grid.Layout, onEvent func(grid.Event)) *GridBoard {
	size := layout.Size()
	b := &GridBoard{
		layout:  layout,
		image:   canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, size.X, size.Y))),
		onEvent: onEvent,
	}
	b.image.FillMode = canvas.ImageFillStretch
	b.image.SetMinSize(fyne.NewSize(float32(size.X), float32(size.Y)))

	b.ExtendBaseWidget(b)
	return b
}

// SetGrid redraws the board for g. Must run on the UI goroutine.
func (b *GridBoard) SetGrid(g *grid.Grid) {
	b.image.Image = b.layout.Render(g)
	b.image.Refresh()
}

// CreateRenderer creates the renderer for the board
func (b *GridBoard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}

// MouseDown maps the click onto a cell and reports it
func (b *GridBoard) MouseDown(ev *desktop.MouseEvent) {
	kind, ok := eventKind(ev.Button)
	if !ok || b.onEvent == nil {
		return
	}

	p := boardPoint(ev.Position, b.Size(), b.layout.Size())
	column, row, ok := b.layout.CellAt(p)
	if !ok {
		return
	}
	b.onEvent(grid.Event{Kind: kind, Column: column, Row: row})
}

// MouseUp is required by desktop.Mouseable
func (b *GridBoard) MouseUp(*desktop.MouseEvent) {}

func eventKind(button desktop.MouseButton) (grid.EventKind, bool) {
	switch button {
	case desktop.MouseButtonPrimary:
		return grid.EventSelect, true
	case desktop.MouseButtonTertiary, desktop.MouseButtonSecondary:
		return grid.EventRemove, true
	}
	return 0, false
}

// boardPoint scales a widget position to layout pixels
func boardPoint(pos fyne.Position, size fyne.Size, layout image.Point) image.Point {
	if size.Width <= 0 || size.Height <= 0 {
		return image.Pt(-1, -1)
	}
	return image.Pt(
		int(pos.X/size.Width*float32(layout.X)),
		int(pos.Y/size.Height*float32(layout.Y)),
	)
}
