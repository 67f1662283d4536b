package compositor

import (
	"fmt"

	clog "github.com/charmbracelet/log"

	"github.com/tessera-ui/tessera/internal/render"
)

// Stack is an ordered sequence of layers: the bottom layer is
// permanent, the rest come and go via Push and Pop.
//
// A panicking layer never takes the stack down: handler and render
// faults are recovered, logged, and isolated to the offending layer.
type Stack struct {
	layers []Layer
	log    *clog.Logger
}

// New creates a stack with its permanent bottom layer, already active.
func New(bottom Layer, logger *clog.Logger) *Stack {
	if logger == nil {
		logger = clog.Default()
	}
	s := &Stack{layers: []Layer{bottom}, log: logger}
	bottom.OnActivate()
	bottom.MarkDirty()
	return s
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Top returns the topmost layer.
func (s *Stack) Top() Layer {
	return s.layers[len(s.layers)-1]
}

// Push deactivates the current top, appends layer, and activates it.
func (s *Stack) Push(layer Layer) {
	s.Top().OnDeactivate()
	s.layers = append(s.layers, layer)
	layer.OnActivate()
	layer.MarkDirty()
}

// Pop removes and returns the top layer, reactivating the one beneath.
// The bottom layer is permanent: popping it fails with ErrBottomLayer
// and a warning, never a panic, so callers can pop unconditionally on
// close requests.
func (s *Stack) Pop() (Layer, error) {
	if len(s.layers) == 1 {
		s.log.Warn("refusing to pop the bottom layer")
		return nil, render.ErrBottomLayer
	}
	top := s.Top()
	top.OnDeactivate()
	s.layers = s.layers[:len(s.layers)-1]
	next := s.Top()
	next.OnActivate()
	// The revealed layer repaints the area the popped one covered.
	next.MarkDirty()
	return top, nil
}

// HandleKey dispatches a key event top-down. The first layer to
// consume it stops propagation; a faulting layer is skipped.
func (s *Stack) HandleKey(ev render.KeyEvent) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.safeHandleKey(s.layers[i], ev) {
			return true
		}
	}
	return false
}

// HandleChar dispatches text input top-down with consumption
// semantics, like HandleKey.
func (s *Stack) HandleChar(ev render.CharEvent) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.safeHandleChar(s.layers[i], ev) {
			return true
		}
	}
	return false
}

// HandleSystem broadcasts a system event to every layer, top-down,
// with no consumption: a resize concerns all layers, visible or not.
func (s *Stack) HandleSystem(ev render.SystemEvent) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		s.protect("system handler", func() {
			layer.HandleSystem(ev)
		})
	}
}

// Render draws the stack bottom-up with two optimizations: layers
// hidden beneath the topmost full-screen layer are skipped entirely,
// and nothing is drawn when no visible layer is dirty.
//
// When a dirty layer repaints, everything stacked above it repaints
// too, because a lower repaint invalidates whatever overlapped it.
func (s *Stack) Render(r render.Renderer) {
	base := s.topFullScreen()

	// Lowest dirty layer at or above the occlusion base.
	dirty := -1
	for i := base; i < len(s.layers); i++ {
		if s.layers[i].NeedsRedraw() {
			dirty = i
			break
		}
	}
	if dirty < 0 {
		return
	}

	for i := dirty + 1; i < len(s.layers); i++ {
		s.layers[i].MarkDirty()
	}

	for i := dirty; i < len(s.layers); i++ {
		if err := s.safeRender(s.layers[i], r); err != nil {
			// The fault stays with this layer; the ones above still
			// render.
			s.log.Error("layer render failed", "layer", i, "err", err)
			continue
		}
		s.layers[i].ClearDirty()
	}

	r.Refresh()
}

// safeRender calls a layer's Render, converting a panic into an error.
func (s *Stack) safeRender(l Layer, r render.Renderer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: render panic: %v", render.ErrLayerFault, rec)
		}
	}()
	return l.Render(r)
}

// topFullScreen returns the index of the topmost full-screen layer, or
// 0 when none is.
func (s *Stack) topFullScreen() int {
	for i := len(s.layers) - 1; i >= 0; i-- {
		full := false
		layer := s.layers[i]
		s.protect("full-screen query", func() {
			full = layer.FullScreen()
		})
		if full {
			return i
		}
	}
	return 0
}

// CloseRequested reports whether the top layer asked to close. The
// event loop pops it in response.
func (s *Stack) CloseRequested() bool {
	return s.Top().ShouldClose()
}

// safeHandleKey calls a layer's key handler, treating a panic as
// unconsumed.
func (s *Stack) safeHandleKey(l Layer, ev render.KeyEvent) (consumed bool) {
	s.protect("key handler", func() {
		consumed = l.HandleKey(ev)
	})
	return consumed
}

func (s *Stack) safeHandleChar(l Layer, ev render.CharEvent) (consumed bool) {
	s.protect("char handler", func() {
		consumed = l.HandleChar(ev)
	})
	return consumed
}

// protect runs fn, converting a panic into a logged layer fault.
func (s *Stack) protect(op string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("layer fault", "op", op, "err", render.ErrLayerFault, "panic", rec)
		}
	}()
	fn()
}
