package render

import "go-bi/internal/common/apperrors"

type State string

const (
	StateUnmounted State = "unmounted"
	StateMounted   State = "mounted"
	StateDisposed  State = "disposed"
)

// Handle is the live, stateful handle to one chart instance. Legal
// transitions are unmounted -> mounted -> disposed; disposed is terminal.
// The state machine is enforced here, independent of whatever shell
// drives the calls.
type Handle struct {
	engine   Engine
	state    State
	surface  Surface
	instance Instance
}

func NewHandle(engine Engine) *Handle {
	return &Handle{engine: engine, state: StateUnmounted}
}

func (h *Handle) State() State     { return h.state }
func (h *Handle) Surface() Surface { return h.surface }

// Mount acquires a chart instance on the surface and applies the initial
// options. A failed mount leaves the handle unmounted.
func (h *Handle) Mount(surface Surface, opts Options) error {
	if h.state != StateUnmounted {
		return &apperrors.InvalidStateError{Op: "mount", State: string(h.state)}
	}

	instance, err := h.engine.Init(surface)
	if err != nil {
		return err
	}
	if err := instance.Apply(opts); err != nil {
		_ = instance.Close()
		return err
	}

	h.instance = instance
	h.surface = surface
	h.state = StateMounted
	return nil
}

// Update re-applies options to the mounted instance without
// re-acquiring the surface.
func (h *Handle) Update(opts Options) error {
	if h.state != StateMounted {
		return &apperrors.InvalidStateError{Op: "update", State: string(h.state)}
	}
	return h.instance.Apply(opts)
}

// Resize informs the instance that its surface's available area changed.
// Rendering libraries do not detect this themselves.
func (h *Handle) Resize(width, height float64) error {
	if h.state != StateMounted {
		return &apperrors.InvalidStateError{Op: "resize", State: string(h.state)}
	}
	if err := h.instance.Resize(width, height); err != nil {
		return err
	}
	h.surface.Width = width
	h.surface.Height = height
	return nil
}

// Dispose releases the instance. Exactly once: a second call fails.
func (h *Handle) Dispose() error {
	if h.state != StateMounted {
		return &apperrors.InvalidStateError{Op: "dispose", State: string(h.state)}
	}
	err := h.instance.Close()
	h.instance = nil
	h.state = StateDisposed
	return err
}

// ExportImage captures the current rendered frame.
func (h *Handle) ExportImage(format string) ([]byte, error) {
	switch h.state {
	case StateUnmounted:
		return nil, &apperrors.NotReadyError{Op: "export"}
	case StateDisposed:
		return nil, &apperrors.InvalidStateError{Op: "export", State: string(h.state)}
	}
	return h.instance.Export(format)
}
