package render

import "errors"

// Error taxonomy shared by all backends and the compositor. Callers
// classify failures with errors.Is; backends wrap these with context
// via fmt.Errorf and %w.
var (
	// ErrInitialization is fatal: the backend could not start (missing
	// font, window or device creation failed). It surfaces from Init
	// and aborts startup.
	ErrInitialization = errors.New("backend initialization failed")

	// ErrInvalidArgument is a caller error (bad color-pair id, RGB
	// component, or dimensions). The operation is rejected without
	// side effects.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidFont means the requested font is unusable for a
	// character grid (not monospace, or failed to load).
	ErrInvalidFont = errors.New("invalid font")

	// ErrDrawingFault is best-effort: a draw was skipped (logged) and
	// grid state is otherwise unaffected.
	ErrDrawingFault = errors.New("drawing fault")

	// ErrLayerFault marks a layer handler that panicked. The fault is
	// isolated; the stack keeps operating.
	ErrLayerFault = errors.New("layer fault")

	// ErrBottomLayer is returned by Stack.Pop when only the permanent
	// bottom layer remains.
	ErrBottomLayer = errors.New("cannot pop bottom layer")
)
