package grid

import (
	"context"
	"errors"
	"image"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"librarysquare/internal/models"
)

// scriptedFrontend replays a fixed list of events and records what the
// session showed. Once the script is exhausted it returns err, or
// interrupts when err is nil.
type scriptedFrontend struct {
	events   []Event
	err      error
	shown    []string
	previews []models.GridCell
	grids    int
	lastGrid *Grid
}

func (f *scriptedFrontend) ShowSource(name string, img image.Image) {
	f.shown = append(f.shown, name)
}

func (f *scriptedFrontend) ShowGrid(g *Grid) {
	f.grids++
	f.lastGrid = g
}

func (f *scriptedFrontend) ShowPreview(cell models.GridCell, img image.Image) {
	f.previews = append(f.previews, cell)
}

func (f *scriptedFrontend) NextEvent(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if len(f.events) == 0 {
		if f.err != nil {
			return Event{}, f.err
		}
		return Event{Kind: EventInterrupt}, nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func selectCell(c, r int) Event { return Event{Kind: EventSelect, Column: c, Row: r} }
func removeCell(c, r int) Event { return Event{Kind: EventRemove, Column: c, Row: r} }

func TestRunManualAssignsInOrder(t *testing.T) {
	asm, store := newTestAssembler(t, smallGeometry(2, 2))
	sources := createSources(3)
	fe := &scriptedFrontend{events: []Event{selectCell(0, 0), selectCell(1, 1), selectCell(0, 1)}}

	m, err := asm.RunManual(context.Background(), sources, fe)
	if err != nil {
		t.Fatalf("RunManual failed: %v", err)
	}

	want := []string{"frame_000.jpg", "frame_001.jpg", "frame_002.jpg"}
	if diff := cmp.Diff(want, fe.shown); diff != "" {
		t.Errorf("Shown sources mismatch (-want +got):\n%s", diff)
	}
	if m.Len() != 3 {
		t.Fatalf("Expected 3 cells, got %d", m.Len())
	}
	if _, err := os.Stat(store.Path(ManifestFile)); err != nil {
		t.Errorf("Manifest not written: %v", err)
	}
	if len(fe.events) != 0 {
		t.Errorf("Expected all events consumed")
	}
}

func TestRunManualPreviewDoesNotAdvance(t *testing.T) {
	asm, _ := newTestAssembler(t, smallGeometry(2, 2))
	fe := &scriptedFrontend{events: []Event{
		selectCell(0, 0),
		selectCell(0, 0), // filled: preview only
		selectCell(1, 0),
	}}

	m, err := asm.RunManual(context.Background(), createSources(2), fe)
	if err != nil {
		t.Fatalf("RunManual failed: %v", err)
	}

	if len(fe.previews) != 1 || fe.previews[0].Filename != "0_0.jpg" {
		t.Errorf("Expected one preview of 0_0.jpg, got %v", fe.previews)
	}
	if m.Len() != 2 {
		t.Errorf("Expected 2 cells, got %d", m.Len())
	}
	if cell, ok := asm.Grid().Cell(1, 0); !ok || cell.Filename != "120_0.jpg" {
		t.Errorf("Expected second image in (1, 0), got %v", cell)
	}
}

func TestRunManualRemove(t *testing.T) {
	asm, store := newTestAssembler(t, smallGeometry(2, 2))
	fe := &scriptedFrontend{events: []Event{
		selectCell(1, 1),
		removeCell(1, 1),
		removeCell(0, 0), // empty: ignored
	}}

	m, err := asm.RunManual(context.Background(), createSources(3), fe)
	if err != nil {
		t.Fatalf("RunManual failed: %v", err)
	}

	if _, err := os.Stat(store.Path("120_120.jpg")); !os.IsNotExist(err) {
		t.Error("Expected removed image to be deleted")
	}
	if m.Len() != 0 {
		t.Errorf("Expected empty manifest, got %d rows", m.Len())
	}
	// removal does not advance: only two sources were ever shown
	if len(fe.shown) != 2 {
		t.Errorf("Expected 2 sources shown, got %d", len(fe.shown))
	}
}

func TestRunManualIgnoresOutsideClicks(t *testing.T) {
	asm, _ := newTestAssembler(t, smallGeometry(2, 2))
	fe := &scriptedFrontend{events: []Event{selectCell(5, 5), removeCell(-1, 0), selectCell(0, 1)}}

	m, err := asm.RunManual(context.Background(), createSources(1), fe)
	if err != nil {
		t.Fatalf("RunManual failed: %v", err)
	}
	if m.Len() != 1 || m.Cells[0].Filename != "0_120.jpg" {
		t.Errorf("Expected single cell 0_120.jpg, got %v", m.Cells)
	}
}

func TestRunManualInterruptWritesPartialManifest(t *testing.T) {
	asm, store := newTestAssembler(t, smallGeometry(3, 3))
	fe := &scriptedFrontend{events: []Event{
		selectCell(2, 2),
		{Kind: EventInterrupt},
		selectCell(0, 0),
	}}

	m, err := asm.RunManual(context.Background(), createSources(9), fe)
	if err != nil {
		t.Fatalf("RunManual failed: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 cell, got %d", m.Len())
	}
	if _, err := os.Stat(store.Path("240_240.jpg")); err != nil {
		t.Errorf("Expected stored image to survive interrupt: %v", err)
	}
	if len(fe.events) != 1 {
		t.Errorf("Expected events after interrupt to be left unread")
	}
}

func TestRunManualFrontendErrorWritesPartialManifest(t *testing.T) {
	geom := smallGeometry(2, 2)
	asm, store := newTestAssembler(t, geom)
	displayLost := errors.New("display lost")
	fe := &scriptedFrontend{events: []Event{selectCell(0, 0)}, err: displayLost}

	if _, err := asm.RunManual(context.Background(), createSources(4), fe); !errors.Is(err, displayLost) {
		t.Fatalf("Expected frontend error, got %v", err)
	}

	if _, err := os.Stat(store.Path("0_0.jpg")); err != nil {
		t.Errorf("Expected stored image to survive: %v", err)
	}
	m, err := store.ReadManifest(geom)
	if err != nil {
		t.Fatalf("Partial manifest not written: %v", err)
	}
	want := []models.GridCell{mustCell(t, geom, 0, 0)}
	if diff := cmp.Diff(want, m.Cells); diff != "" {
		t.Errorf("Manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestRunManualContextCancelled(t *testing.T) {
	asm, store := newTestAssembler(t, smallGeometry(2, 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := asm.RunManual(ctx, createSources(2), &scriptedFrontend{})
	if err != nil {
		t.Fatalf("RunManual failed: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Expected empty manifest")
	}
	if _, err := os.Stat(store.Path(ManifestFile)); err != nil {
		t.Errorf("Manifest not written: %v", err)
	}
}

func TestSessionStates(t *testing.T) {
	asm, _ := newTestAssembler(t, smallGeometry(2, 1))
	s, err := asm.NewSession(createSources(2))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if s.State() != AwaitingInput {
		t.Fatalf("Expected %v, got %v", AwaitingInput, s.State())
	}
	if s.Remaining() != 2 {
		t.Errorf("Expected 2 remaining, got %d", s.Remaining())
	}

	if err := s.Handle(selectCell(0, 0)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if name, _ := s.Current(); name != "frame_001.jpg" {
		t.Errorf("Expected frame_001.jpg current, got %s", name)
	}

	if err := s.Handle(selectCell(0, 0)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if s.State() != Previewing {
		t.Errorf("Expected %v, got %v", Previewing, s.State())
	}

	if err := s.Handle(selectCell(1, 0)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if s.State() != Finalizing {
		t.Errorf("Expected %v after last source, got %v", Finalizing, s.State())
	}
	if err := s.Handle(selectCell(1, 0)); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Expected ErrSessionClosed, got %v", err)
	}
}

func TestSessionNoSources(t *testing.T) {
	asm, _ := newTestAssembler(t, smallGeometry(1, 1))
	s, err := asm.NewSession(nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if s.State() != Finalizing {
		t.Errorf("Expected %v, got %v", Finalizing, s.State())
	}
}
