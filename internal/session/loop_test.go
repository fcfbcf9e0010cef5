package session

import (
	"image"
	"sync"
	"testing"
	"time"

	"lumen/internal/config"
	"lumen/internal/engine"
	"lumen/internal/icons"
	"lumen/internal/model"
	"lumen/internal/render"
)

type recordingExecutor struct {
	mu    sync.Mutex
	items []model.Item
	group string
}

func (r *recordingExecutor) Execute(item model.Item, group string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	r.group = group
	return nil
}

func (r *recordingExecutor) executed() []model.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Item, len(r.items))
	copy(out, r.items)
	return out
}

type countingPresenter struct {
	frames chan struct{}
}

func newCountingPresenter() *countingPresenter {
	return &countingPresenter{frames: make(chan struct{}, 128)}
}

func (p *countingPresenter) Present(buf *image.RGBA) {
	select {
	case p.frames <- struct{}{}:
	default:
	}
}

func (p *countingPresenter) waitFrame(t *testing.T) {
	t.Helper()
	select {
	case <-p.frames:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for a rendered frame")
	}
}

type loopFixture struct {
	loop  *Loop
	exec  *recordingExecutor
	pres  *countingPresenter
	items chan []model.Item
	done  chan struct{}
}

func startLoop(t *testing.T) *loopFixture {
	t.Helper()

	eng := engine.New(nil, config.LaunchGroup{})
	iconSvc := icons.NewService(icons.NewLoader(nil))
	r, err := render.New(config.DefaultConfig.Theme, iconSvc)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	f := &loopFixture{
		exec:  &recordingExecutor{},
		pres:  newCountingPresenter(),
		items: make(chan []model.Item, 1),
		done:  make(chan struct{}),
	}
	f.loop = NewLoop(eng, r, iconSvc, f.exec, f.pres, "default", f.items)

	go func() {
		f.loop.Run()
		close(f.done)
	}()
	return f
}

func (f *loopFixture) waitDone(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for loop to terminate")
	}
}

func testBatch() []model.Item {
	return []model.Item{
		model.NewItem("a", "Alpha", "alpha", model.KindDesktop, false),
		model.NewItem("b", "Beta", "beta", model.KindDesktop, false),
		model.NewItem("c", "Gamma", "gamma", model.KindDesktop, false),
	}
}

func TestEscapeTerminates(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- KeyPress{Key: KeyEscape}
	f.waitDone(t)

	if len(f.exec.executed()) != 0 {
		t.Error("Expected nothing executed on escape")
	}
}

func TestFocusLostTerminates(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- FocusLost{}
	f.waitDone(t)
}

func TestSurfaceClosedTerminates(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- SurfaceClosed{}
	f.waitDone(t)
}

func TestResizeAllocatesBufferAndRenders(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyEscape}
	f.waitDone(t)
}

func TestItemBatchIngestTriggersRender(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.pres.waitFrame(t)

	f.items <- testBatch()
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyEscape}
	f.waitDone(t)
}

func TestEnterExecutesSelectionWithGroup(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.loop.Events() <- ItemsArrived{Items: testBatch()}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyEnter}
	f.waitDone(t)

	executed := f.exec.executed()
	if len(executed) != 1 {
		t.Fatalf("Expected 1 execution, got %d", len(executed))
	}
	if executed[0].Name != "Alpha" {
		t.Errorf("Expected first view item Alpha executed, got %s", executed[0].Name)
	}
	if f.exec.group != "default" {
		t.Errorf("Expected active group handed to executor, got %q", f.exec.group)
	}
}

func TestEnterWithoutSelectionDoesNotExecute(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyEnter}
	f.loop.Events() <- KeyPress{Key: KeyEscape}
	f.waitDone(t)

	if len(f.exec.executed()) != 0 {
		t.Error("Expected no execution with an empty view")
	}
}

func TestArrowKeysMoveSelection(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.loop.Events() <- ItemsArrived{Items: testBatch()}
	f.pres.waitFrame(t)

	// Down past Alpha to Beta, then execute.
	f.loop.Events() <- KeyPress{Key: KeyDown}
	f.loop.Events() <- KeyPress{Key: KeyEnter}
	f.waitDone(t)

	executed := f.exec.executed()
	if len(executed) != 1 || executed[0].Name != "Beta" {
		t.Errorf("Expected Beta executed after one Down, got %v", executed)
	}
}

func TestTypingNarrowsAndBackspaceWidens(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.loop.Events() <- ItemsArrived{Items: testBatch()}
	f.pres.waitFrame(t)

	for _, r := range "bet" {
		f.loop.Events() <- KeyPress{Key: KeyChar, Rune: r}
	}
	f.loop.Events() <- KeyPress{Key: KeyEnter}
	f.waitDone(t)

	executed := f.exec.executed()
	if len(executed) != 1 || executed[0].Name != "Beta" {
		t.Errorf("Expected Beta executed for query 'bet', got %v", executed)
	}
}

func TestBackspaceOnEmptyQueryIsHarmless(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.loop.Events() <- ItemsArrived{Items: testBatch()}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyBackspace}
	f.loop.Events() <- KeyPress{Key: KeyEnter}
	f.waitDone(t)

	executed := f.exec.executed()
	if len(executed) != 1 || executed[0].Name != "Alpha" {
		t.Errorf("Expected full view intact after backspace on empty query, got %v", executed)
	}
}

func TestDigitShortcutExecutesVisibleRow(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.loop.Events() <- ItemsArrived{Items: testBatch()}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyChar, Rune: '2'}
	f.waitDone(t)

	executed := f.exec.executed()
	if len(executed) != 1 || executed[0].Name != "Beta" {
		t.Errorf("Expected ordinal 2 to execute Beta, got %v", executed)
	}
}

func TestDigitBeyondViewIsNoOp(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.loop.Events() <- ItemsArrived{Items: testBatch()}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyChar, Rune: '9'}
	f.loop.Events() <- KeyPress{Key: KeyEscape}
	f.waitDone(t)

	if len(f.exec.executed()) != 0 {
		t.Error("Expected digit past the visible window to be a no-op")
	}
}

func TestRenderWithPendingIconRequest(t *testing.T) {
	f := startLoop(t)
	f.loop.Events() <- Resize{Width: 600, Height: 400}
	f.pres.waitFrame(t)

	batch := testBatch()
	batch[0].Icon = "no-such-icon"
	f.loop.Events() <- ItemsArrived{Items: batch}
	f.pres.waitFrame(t)

	// The ingest render requested the icon; with no worker running the
	// request stays pending. Repeated frames must neither block nor enqueue
	// duplicate jobs.
	f.loop.Events() <- FrameReady{}
	f.pres.waitFrame(t)

	f.loop.Events() <- KeyPress{Key: KeyEscape}
	f.waitDone(t)
}
