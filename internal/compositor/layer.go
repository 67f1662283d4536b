// Package compositor provides the UI layer stack: a LIFO stack of
// interactive layers over a renderer, with top-down event dispatch,
// bottom-up rendering, dirty tracking, and full-screen occlusion.
package compositor

import "github.com/tessera-ui/tessera/internal/render"

// Layer is one interactive unit managed by the stack (a dialog, a
// full-screen viewer, the application's base screen).
//
// The stack never mutates a layer's internals directly; all state
// behind these methods is owned by the layer itself.
type Layer interface {
	// HandleKey processes a key command. Returning true consumes the
	// event and stops propagation to lower layers.
	HandleKey(ev render.KeyEvent) bool

	// HandleChar processes text input. Returning true consumes it.
	HandleChar(ev render.CharEvent) bool

	// HandleSystem processes a system notification. System events are
	// broadcast to every layer; there is no consumption.
	HandleSystem(ev render.SystemEvent)

	// Render draws the layer's content.
	Render(r render.Renderer) error

	// FullScreen reports whether the layer covers the whole display,
	// letting the stack skip everything beneath it.
	FullScreen() bool

	// NeedsRedraw reports whether the layer changed since its last
	// render.
	NeedsRedraw() bool

	// MarkDirty flags the layer for redraw.
	MarkDirty()

	// ClearDirty clears the redraw flag.
	ClearDirty()

	// ShouldClose reports whether the layer asked to be removed.
	ShouldClose() bool

	// OnActivate fires when the layer becomes top of the stack.
	OnActivate()

	// OnDeactivate fires when the layer stops being top of the stack.
	OnDeactivate()
}

// Base provides the dirty/close bookkeeping most layers share. Embed
// it and override the handlers that matter.
type Base struct {
	dirty   bool
	closing bool
}

// HandleKey implements Layer; the base consumes nothing.
func (b *Base) HandleKey(ev render.KeyEvent) bool { return false }

// HandleChar implements Layer; the base consumes nothing.
func (b *Base) HandleChar(ev render.CharEvent) bool { return false }

// HandleSystem implements Layer.
func (b *Base) HandleSystem(ev render.SystemEvent) {}

// FullScreen implements Layer.
func (b *Base) FullScreen() bool { return false }

// NeedsRedraw implements Layer.
func (b *Base) NeedsRedraw() bool { return b.dirty }

// MarkDirty implements Layer.
func (b *Base) MarkDirty() { b.dirty = true }

// ClearDirty implements Layer.
func (b *Base) ClearDirty() { b.dirty = false }

// ShouldClose implements Layer.
func (b *Base) ShouldClose() bool { return b.closing }

// RequestClose asks the stack to pop this layer.
func (b *Base) RequestClose() { b.closing = true }

// OnActivate implements Layer.
func (b *Base) OnActivate() {}

// OnDeactivate implements Layer.
func (b *Base) OnDeactivate() {}
