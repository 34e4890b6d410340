package render

// Surface identifies the display area a chart instance is bound to
// (the backend-side stand-in for a canvas or DOM node).
type Surface struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Engine is the chart-library capability this subsystem consumes:
// acquire an instance on a surface, feed it declarative options, release
// it. The library's drawing internals are out of scope.
type Engine interface {
	Init(surface Surface) (Instance, error)
}

// Instance is one live chart bound to a surface.
type Instance interface {
	Apply(opts Options) error
	Resize(width, height float64) error
	Export(format string) ([]byte, error)
	Close() error
}
