// Package session runs the single-threaded dispatcher that owns the engine,
// renderer and backing buffer. All mutation happens on the loop goroutine;
// the icon worker and the one-shot scanner only talk to it over channels.
package session

import (
	"image"
	"log"
	"unicode"

	"lumen/internal/engine"
	"lumen/internal/icons"
	"lumen/internal/model"
	"lumen/internal/render"
)

// Executor hands a chosen item to the outside world. Terminal wrapping,
// per-group environment injection and process spawning live behind it.
type Executor interface {
	Execute(item model.Item, group string) error
}

// Presenter receives the finished premultiplied RGBA frame.
type Presenter interface {
	Present(buf *image.RGBA)
}

type Loop struct {
	engine    *engine.Engine
	renderer  *render.Renderer
	icons     *icons.Service
	executor  Executor
	presenter Presenter
	group     string

	events chan Event
	items  <-chan []model.Item

	buf    *image.RGBA
	width  int
	height int

	terminating bool
}

func NewLoop(eng *engine.Engine, r *render.Renderer, iconService *icons.Service,
	exec Executor, p Presenter, group string, items <-chan []model.Item) *Loop {
	return &Loop{
		engine:    eng,
		renderer:  r,
		icons:     iconService,
		executor:  exec,
		presenter: p,
		group:     group,
		events:    make(chan Event, 32),
		items:     items,
	}
}

// Events is where the presentation layer posts input and surface events.
func (l *Loop) Events() chan<- Event {
	return l.events
}

// Run dispatches until a terminating event arrives. Outstanding icon work
// is abandoned, not drained.
func (l *Loop) Run() {
	log.Printf("[SESSION] Loop started (group=%s)", l.group)
	for !l.terminating {
		select {
		case ev := <-l.events:
			l.dispatch(ev)
		case res := <-l.icons.Results():
			l.icons.Deliver(res.Name, res.Image)
			l.render()
		case batch := <-l.items:
			l.engine.IngestCatalog(batch)
			l.render()
		}
	}
	log.Printf("[SESSION] Loop terminated")
}

func (l *Loop) dispatch(ev Event) {
	switch ev := ev.(type) {
	case Resize:
		l.resize(ev.Width, ev.Height)
		l.render()
	case FrameReady:
		l.render()
	case ItemsArrived:
		l.engine.IngestCatalog(ev.Items)
		l.render()
	case KeyPress:
		l.handleKey(ev)
	case FocusLost, SurfaceClosed:
		l.terminating = true
	}
}

func (l *Loop) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if l.buf != nil && width == l.width && height == l.height {
		return
	}
	l.width = width
	l.height = height
	l.buf = image.NewRGBA(image.Rect(0, 0, width, height))
	log.Printf("[SESSION] Buffer reallocated to %dx%d", width, height)
}

func (l *Loop) handleKey(ev KeyPress) {
	switch ev.Key {
	case KeyEscape:
		l.terminating = true
	case KeyEnter:
		if item, ok := l.engine.Selected(); ok {
			l.execute(item)
		}
	case KeyUp:
		l.engine.MoveSelection(-1)
		l.render()
	case KeyDown:
		l.engine.MoveSelection(1)
		l.render()
	case KeyBackspace:
		q := []rune(l.engine.Query())
		if len(q) > 0 {
			q = q[:len(q)-1]
		}
		l.engine.SetQuery(string(q))
		l.render()
	case KeyChar:
		if ev.Rune >= '1' && ev.Rune <= '9' {
			l.quickSelect(int(ev.Rune - '1'))
			return
		}
		if unicode.IsGraphic(ev.Rune) && !unicode.IsControl(ev.Rune) {
			l.engine.SetQuery(l.engine.Query() + string(ev.Rune))
			l.render()
		}
	}
}

// quickSelect executes the visible row at the given 0-based ordinal, using
// the same pagination window the renderer paints.
func (l *Loop) quickSelect(ordinal int) {
	capacity := l.renderer.RowCapacity(l.height)
	start, end := render.Window(l.engine.Cursor(), l.engine.Len(), capacity)

	target := start + ordinal
	if target >= end {
		return
	}
	if item, ok := l.engine.ItemAt(target); ok {
		l.execute(item)
	}
}

func (l *Loop) execute(item model.Item) {
	if err := l.executor.Execute(item, l.group); err != nil {
		log.Printf("[SESSION] Failed to execute %q: %v", item.Name, err)
	}
	l.terminating = true
}

func (l *Loop) render() {
	if l.buf == nil || l.terminating {
		return
	}
	l.renderer.Draw(l.buf, l.engine)
	l.presenter.Present(l.buf)
}
