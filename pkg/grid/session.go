package grid

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"librarysquare/internal/models"
)

// State is the phase of a manual labeling session
type State int

const (
	// AwaitingInput waits for the next user event with a source image shown
	AwaitingInput State = iota
	// Assigning stores the shown image into the selected cell
	Assigning
	// Previewing shows the stored image of a filled cell
	Previewing
	// Finalizing ends the session; no further events are accepted
	Finalizing
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting-input"
	case Assigning:
		return "assigning"
	case Previewing:
		return "previewing"
	case Finalizing:
		return "finalizing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind is the kind of a user input event
type EventKind int

const (
	// EventSelect picks a cell: assign into it when empty, preview it when filled
	EventSelect EventKind = iota
	// EventRemove deletes a filled cell
	EventRemove
	// EventInterrupt ends the session early
	EventInterrupt
)

// Event is a user input event over a grid cell
type Event struct {
	Kind   EventKind
	Column int
	Row    int
}

// ErrSessionClosed is returned for events sent to a finalizing session
var ErrSessionClosed = errors.New("labeling session closed")

// Frontend presents a manual labeling session and reports user input.
// All calls are made from the session goroutine.
type Frontend interface {
	// ShowSource displays the image waiting for a cell
	ShowSource(name string, img image.Image)

	// ShowGrid displays the cell layout. g is a copy owned by the frontend.
	ShowGrid(g *Grid)

	// ShowPreview displays the stored image of a filled cell
	ShowPreview(cell models.GridCell, img image.Image)

	// NextEvent blocks until the user acts or ctx is done
	NextEvent(ctx context.Context) (Event, error)
}

// Session is the state machine of manual labeling. Each source is shown in
// turn; the session advances only when the shown image is assigned to an
// empty cell.
type Session struct {
	asm     *Assembler
	sources []Source
	next    int
	state   State

	current     image.Image
	currentName string

	preview     image.Image
	previewCell models.GridCell
}

// NewSession starts a session over sources and loads the first one
func (a *Assembler) NewSession(sources []Source) (*Session, error) {
	s := &Session{asm: a, sources: sources}
	if err := s.advance(); err != nil {
		return nil, err
	}
	return s, nil
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Current returns the source waiting for a cell
func (s *Session) Current() (string, image.Image) {
	return s.currentName, s.current
}

// Preview returns the cell and image of the last preview
func (s *Session) Preview() (models.GridCell, image.Image) {
	return s.previewCell, s.preview
}

// Remaining is the number of sources not yet assigned, including the current one
func (s *Session) Remaining() int {
	if s.state == Finalizing {
		return 0
	}
	return len(s.sources) - s.next + 1
}

// advance loads the next source or, when none are left, moves to Finalizing
func (s *Session) advance() error {
	if s.next >= len(s.sources) {
		s.current, s.currentName = nil, ""
		s.state = Finalizing
		return nil
	}

	src := s.sources[s.next]
	img, err := src.Open()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", src.Name(), err)
	}
	s.next++
	s.current, s.currentName = img, src.Name()
	s.state = AwaitingInput
	return nil
}

// Handle applies one user event. Events outside the grid and removals of
// empty cells leave the session unchanged.
func (s *Session) Handle(ev Event) error {
	if s.state == Finalizing {
		return ErrSessionClosed
	}

	switch ev.Kind {
	case EventInterrupt:
		s.state = Finalizing
		return nil

	case EventSelect:
		if cell, ok := s.asm.grid.Cell(ev.Column, ev.Row); ok {
			img, err := s.asm.store.Load(cell.Filename)
			if err != nil {
				return fmt.Errorf("failed to load stored %s: %w", cell.Filename, err)
			}
			s.preview, s.previewCell = img, cell
			s.state = Previewing
			return nil
		}
		if !s.asm.geom.Contains(ev.Column, ev.Row) {
			return nil
		}

		s.state = Assigning
		if _, err := s.asm.Assign(ev.Column, ev.Row, s.current); err != nil {
			s.state = AwaitingInput
			return err
		}
		return s.advance()

	case EventRemove:
		if !s.asm.grid.Filled(ev.Column, ev.Row) {
			return nil
		}
		if _, err := s.asm.Remove(ev.Column, ev.Row); err != nil {
			return err
		}
		s.state = AwaitingInput
		return nil
	}

	return fmt.Errorf("unknown event kind %d", ev.Kind)
}

// RunManual runs an interactive session over sources until they are all
// assigned, the user interrupts, or ctx is cancelled, then writes the
// manifest of whatever cells are filled. Images already stored are kept.
func (a *Assembler) RunManual(ctx context.Context, sources []Source, fe Frontend) (Manifest, error) {
	s, err := a.NewSession(sources)
	if err != nil {
		return Manifest{}, err
	}

	shown := ""
	for s.State() != Finalizing {
		if name, img := s.Current(); name != shown {
			a.logger.WithFields(logrus.Fields{
				"source":    name,
				"remaining": s.Remaining(),
			}).Info("Showing image")
			fe.ShowSource(name, img)
			shown = name
		}
		fe.ShowGrid(a.grid.Clone())

		ev, err := fe.NextEvent(ctx)
		if err != nil {
			if ctx.Err() == nil {
				return Manifest{}, a.abort(err)
			}
			ev = Event{Kind: EventInterrupt}
		}

		if err := s.Handle(ev); err != nil {
			if errors.Is(err, ErrCellOccupied) {
				a.logger.WithError(err).Warn("Ignoring event")
				continue
			}
			return Manifest{}, a.abort(err)
		}

		if s.State() == Previewing {
			cell, img := s.Preview()
			fe.ShowPreview(cell, img)
			s.state = AwaitingInput
		}
	}

	if filled := a.grid.Len(); filled < a.geom.Capacity() {
		a.logger.WithFields(logrus.Fields{
			"filled":   filled,
			"capacity": a.geom.Capacity(),
		}).Warn("Grid incomplete")
	}
	return a.Finalize()
}

// abort writes the manifest of the cells filled so far and returns err
func (a *Assembler) abort(err error) error {
	if _, ferr := a.Finalize(); ferr != nil {
		a.logger.WithError(ferr).Error("Failed to write partial manifest")
	}
	return err
}
