package session

import "lumen/internal/model"

// Event is the closed set of external happenings the session loop
// dispatches on. The presentation layer collapses its callbacks into these.
type Event interface {
	event()
}

// Resize reports a new surface size from the presentation layer.
type Resize struct {
	Width  int
	Height int
}

// FrameReady asks for a redraw of the current state.
type FrameReady struct{}

// ItemsArrived carries the one-shot catalog batch from the scanners.
type ItemsArrived struct {
	Items []model.Item
}

// KeyPress is a single key event, already translated by the presentation
// layer.
type KeyPress struct {
	Key  Key
	Rune rune // set for KeyChar
}

// FocusLost signals the keyboard focus left the surface.
type FocusLost struct{}

// SurfaceClosed signals the presentation layer tore the surface down.
type SurfaceClosed struct{}

func (Resize) event()        {}
func (FrameReady) event()    {}
func (ItemsArrived) event()  {}
func (KeyPress) event()      {}
func (FocusLost) event()     {}
func (SurfaceClosed) event() {}

// Key identifies the non-text keys the loop reacts to; everything else
// arrives as KeyChar with the rune set.
type Key int

const (
	KeyChar Key = iota
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyBackspace
)
