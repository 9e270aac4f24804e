package gui

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"librarysquare/internal/models"
	"librarysquare/pkg/grid"
)

const eventBuffer = 16

// Labeler is a fyne implementation of grid.Frontend. The session calls it
// from its own goroutine; every widget update is handed to the UI goroutine
// with fyne.Do.
type Labeler struct {
	app    fyne.App
	window fyne.Window
	logger logrus.FieldLogger

	board   *GridBoard
	source  *canvas.Image
	status  *widget.Label
	preview fyne.Window
	shot    *canvas.Image

	events chan grid.Event
	closed atomic.Bool

	// interrupted is closed once the user asks to finish
	interrupted chan struct{}
	stopOnce    sync.Once
}

// NewLabeler builds the labeling window for geom
func NewLabeler(app fyne.App, geom grid.Geometry, logger logrus.FieldLogger) *Labeler {
	l := &Labeler{
		app:    app,
		window: app.NewWindow("grid | labeling tool"),
		logger: logger,
		events: make(chan grid.Event, eventBuffer),

		interrupted: make(chan struct{}),
	}

	l.board = NewGridBoard(grid.NewLayout(geom.Columns, geom.Rows), l.post)
	l.source = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	l.source.FillMode = canvas.ImageFillContain
	l.source.SetMinSize(fyne.NewSize(480, 240))
	l.status = widget.NewLabel("Left click: assign or preview, middle click: remove, Esc: finish")

	l.window.SetContent(container.NewBorder(
		l.status, nil, nil, nil,
		container.NewHSplit(l.source, container.NewScroll(l.board)),
	))
	l.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape || ev.Name == fyne.KeyQ {
			l.stop()
		}
	})
	l.window.SetOnClosed(func() {
		l.closed.Store(true)
		l.stop()
	})

	l.shot = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	l.shot.FillMode = canvas.ImageFillContain
	l.shot.SetMinSize(fyne.NewSize(480, 240))
	l.preview = app.NewWindow("preview | labeling tool")
	l.preview.SetContent(l.shot)
	l.preview.SetCloseIntercept(func() { l.preview.Hide() })

	return l
}

// post queues an event without blocking the UI goroutine
func (l *Labeler) post(ev grid.Event) {
	select {
	case l.events <- ev:
	default:
		l.logger.WithField("event", ev).Warn("Dropping input event, session busy")
	}
}

// ShowSource displays the image waiting for a cell
func (l *Labeler) ShowSource(name string, img image.Image) {
	l.do(func() {
		l.source.Image = img
		l.source.Refresh()
		l.window.SetTitle(fmt.Sprintf("%s | labeling tool", filepath.Base(name)))
	})
}

// ShowGrid redraws the cell board
func (l *Labeler) ShowGrid(g *grid.Grid) {
	l.do(func() {
		l.board.SetGrid(g)
		l.status.SetText(fmt.Sprintf("%d of %d cells labeled", g.Len(), g.Geometry().Capacity()))
	})
}

// ShowPreview displays the stored image of cell in the preview window
func (l *Labeler) ShowPreview(cell models.GridCell, img image.Image) {
	l.do(func() {
		l.shot.Image = img
		l.shot.Refresh()
		l.preview.SetTitle(fmt.Sprintf("%s (%s) | preview", cell.Filename, cell))
		l.preview.Show()
	})
}

// stop ends the session at its next event
func (l *Labeler) stop() {
	l.stopOnce.Do(func() { close(l.interrupted) })
}

// NextEvent blocks until the user acts or ctx is done. An interrupt wins
// over queued clicks.
func (l *Labeler) NextEvent(ctx context.Context) (grid.Event, error) {
	select {
	case <-l.interrupted:
		return grid.Event{Kind: grid.EventInterrupt}, nil
	default:
	}

	select {
	case <-l.interrupted:
		return grid.Event{Kind: grid.EventInterrupt}, nil
	case ev := <-l.events:
		return ev, nil
	case <-ctx.Done():
		return grid.Event{}, ctx.Err()
	}
}

// ShowAndRun shows the labeling window and runs the UI loop until it closes
func (l *Labeler) ShowAndRun() {
	l.window.ShowAndRun()
}

// Quit stops the UI loop unless the window is already gone
func (l *Labeler) Quit() {
	l.do(func() { l.app.Quit() })
}

func (l *Labeler) do(fn func()) {
	if l.closed.Load() {
		return
	}
	fyne.Do(fn)
}
