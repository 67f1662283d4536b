package compositor

import (
	"errors"
	"io"
	"testing"

	clog "github.com/charmbracelet/log"

	"github.com/tessera-ui/tessera/internal/render"
)

// fakeLayer records lifecycle and handler calls.
type fakeLayer struct {
	Base
	name string

	fullScreen  bool
	consumeKey  bool
	consumeChar bool
	panicOnKey  bool
	panicRender bool

	keyEvents   []render.KeyEvent
	charEvents  []render.CharEvent
	sysEvents   []render.SystemEvent
	renderCount int
	activates   int
	deactivates int
}

func (f *fakeLayer) HandleKey(ev render.KeyEvent) bool {
	if f.panicOnKey {
		panic("handler exploded")
	}
	f.keyEvents = append(f.keyEvents, ev)
	return f.consumeKey
}

func (f *fakeLayer) HandleChar(ev render.CharEvent) bool {
	f.charEvents = append(f.charEvents, ev)
	return f.consumeChar
}

func (f *fakeLayer) HandleSystem(ev render.SystemEvent) {
	f.sysEvents = append(f.sysEvents, ev)
}

func (f *fakeLayer) Render(r render.Renderer) error {
	if f.panicRender {
		panic("render exploded")
	}
	f.renderCount++
	r.DrawText(0, 0, f.name, 0, 0)
	return nil
}

func (f *fakeLayer) FullScreen() bool { return f.fullScreen }
func (f *fakeLayer) OnActivate()      { f.activates++ }
func (f *fakeLayer) OnDeactivate()    { f.deactivates++ }

func quietLogger() *clog.Logger {
	return clog.New(io.Discard)
}

func newStack(t *testing.T) (*Stack, *fakeLayer) {
	t.Helper()
	bottom := &fakeLayer{name: "bottom", fullScreen: true}
	return New(bottom, quietLogger()), bottom
}

func TestPushPopLIFO(t *testing.T) {
	s, bottom := newStack(t)
	a := &fakeLayer{name: "a"}
	b := &fakeLayer{name: "b"}
	s.Push(a)
	s.Push(b)

	if s.Len() != 3 || s.Top() != Layer(b) {
		t.Fatalf("Len = %d Top = %v", s.Len(), s.Top())
	}

	popped, err := s.Pop()
	if err != nil || popped != Layer(b) {
		t.Errorf("Pop = %v, %v, want b, nil", popped, err)
	}
	popped, err = s.Pop()
	if err != nil || popped != Layer(a) {
		t.Errorf("Pop = %v, %v, want a, nil", popped, err)
	}
	if s.Top() != Layer(bottom) {
		t.Error("bottom is not top after popping everything")
	}
}

func TestPopBottomRefused(t *testing.T) {
	s, bottom := newStack(t)
	popped, err := s.Pop()
	if !errors.Is(err, render.ErrBottomLayer) {
		t.Errorf("Pop() err = %v, want ErrBottomLayer", err)
	}
	if popped != nil {
		t.Errorf("Pop() = %v, want nil", popped)
	}
	if s.Len() != 1 || s.Top() != Layer(bottom) {
		t.Error("bottom layer was removed")
	}
	// Refusal did not fire lifecycle hooks.
	if bottom.deactivates != 0 {
		t.Error("bottom deactivated by refused pop")
	}
}

func TestLifecycleHooks(t *testing.T) {
	s, bottom := newStack(t)
	if bottom.activates != 1 {
		t.Errorf("bottom activates = %d, want 1 (on New)", bottom.activates)
	}

	a := &fakeLayer{name: "a"}
	s.Push(a)
	if bottom.deactivates != 1 || a.activates != 1 {
		t.Errorf("after push: bottom.deactivates = %d, a.activates = %d", bottom.deactivates, a.activates)
	}

	_, _ = s.Pop()
	if a.deactivates != 1 || bottom.activates != 2 {
		t.Errorf("after pop: a.deactivates = %d, bottom.activates = %d", a.deactivates, bottom.activates)
	}
}

func TestKeyConsumptionStopsPropagation(t *testing.T) {
	s, bottom := newStack(t)
	mid := &fakeLayer{name: "mid", consumeKey: true}
	top := &fakeLayer{name: "top"}
	s.Push(mid)
	s.Push(top)

	ev := render.KeyEvent{Code: render.KeyEnter}
	if !s.HandleKey(ev) {
		t.Error("HandleKey = false, want consumed")
	}
	if len(top.keyEvents) != 1 {
		t.Error("top layer skipped during top-down dispatch")
	}
	if len(mid.keyEvents) != 1 {
		t.Error("mid layer did not receive the event")
	}
	if len(bottom.keyEvents) != 0 {
		t.Error("event propagated past the consuming layer")
	}
}

func TestUnconsumedReachesBottom(t *testing.T) {
	s, bottom := newStack(t)
	s.Push(&fakeLayer{name: "a"})
	s.Push(&fakeLayer{name: "b"})

	if s.HandleChar(render.CharEvent{Ch: "q"}) {
		t.Error("HandleChar = true with no consumer")
	}
	if len(bottom.charEvents) != 1 {
		t.Error("unconsumed event did not reach the bottom layer")
	}
}

func TestPanickingHandlerIsSkipped(t *testing.T) {
	s, bottom := newStack(t)
	bottom.consumeKey = true
	s.Push(&fakeLayer{name: "broken", panicOnKey: true})

	// The fault is isolated: propagation continues to the bottom.
	if !s.HandleKey(render.KeyEvent{Code: render.KeyEscape}) {
		t.Error("HandleKey = false; propagation aborted by panic")
	}
	if len(bottom.keyEvents) != 1 {
		t.Error("layer below the faulting one never saw the event")
	}
}

func TestSystemEventBroadcast(t *testing.T) {
	s, bottom := newStack(t)
	a := &fakeLayer{name: "a"}
	s.Push(a)
	s.HandleSystem(render.SystemEvent{Kind: render.SystemResize})
	if len(a.sysEvents) != 1 || len(bottom.sysEvents) != 1 {
		t.Error("system event not broadcast to every layer")
	}
}

func TestRenderNothingWhenClean(t *testing.T) {
	s, bottom := newStack(t)
	r := render.NewNull(24, 80)

	s.Render(r) // initial render clears the dirty flag
	if bottom.renderCount != 1 || r.RefreshCount != 1 {
		t.Fatalf("initial render: renders = %d, refreshes = %d", bottom.renderCount, r.RefreshCount)
	}

	s.Render(r)
	if bottom.renderCount != 1 {
		t.Error("clean stack re-rendered")
	}
	if r.RefreshCount != 1 {
		t.Error("clean stack refreshed the renderer")
	}
}

func TestFullScreenSuppressesLowerLayers(t *testing.T) {
	s, bottom := newStack(t)
	r := render.NewNull(24, 80)
	s.Render(r)

	viewer := &fakeLayer{name: "viewer", fullScreen: true}
	overlay := &fakeLayer{name: "overlay"}
	s.Push(viewer)
	s.Push(overlay)

	// Only the overlay is dirty; the full-screen viewer below it is
	// clean, so rendering starts at the overlay.
	viewer.ClearDirty()
	overlay.MarkDirty()
	base := bottom.renderCount
	s.Render(r)

	if bottom.renderCount != base {
		t.Error("layer beneath the full-screen viewer rendered")
	}
	if viewer.renderCount != 0 {
		t.Error("clean full-screen layer rendered")
	}
	if overlay.renderCount != 1 {
		t.Error("dirty overlay did not render")
	}
}

func TestDirtyLowerForcesUpperRepaint(t *testing.T) {
	s, bottom := newStack(t)
	r := render.NewNull(24, 80)
	a := &fakeLayer{name: "a"}
	s.Push(a)
	s.Render(r)

	// Dirtying only the bottom repaints the overlay above it too.
	bottom.MarkDirty()
	s.Render(r)
	if bottom.renderCount != 2 {
		t.Errorf("bottom renders = %d, want 2", bottom.renderCount)
	}
	if a.renderCount != 2 {
		t.Errorf("overlay renders = %d, want 2 (forced by lower repaint)", a.renderCount)
	}
	if bottom.NeedsRedraw() || a.NeedsRedraw() {
		t.Error("dirty flags survived a successful render")
	}
}

func TestRenderFaultIsolated(t *testing.T) {
	s, bottom := newStack(t)
	r := render.NewNull(24, 80)
	s.Render(r)

	broken := &fakeLayer{name: "broken", panicRender: true}
	top := &fakeLayer{name: "top"}
	s.Push(broken)
	s.Push(top)

	bottom.MarkDirty()
	s.Render(r)

	// The faulting layer stays dirty; the one above it still rendered
	// and the frame still refreshed.
	if !broken.NeedsRedraw() {
		t.Error("faulting layer's dirty flag was cleared")
	}
	if top.renderCount != 1 {
		t.Error("layer above the faulting one did not render")
	}
	if r.RefreshCount != 2 {
		t.Errorf("refreshes = %d, want 2", r.RefreshCount)
	}
}

func TestCloseRequested(t *testing.T) {
	s, _ := newStack(t)
	dialog := &fakeLayer{name: "dialog"}
	s.Push(dialog)
	if s.CloseRequested() {
		t.Error("CloseRequested = true before request")
	}
	dialog.RequestClose()
	if !s.CloseRequested() {
		t.Error("CloseRequested = false after request")
	}
}
