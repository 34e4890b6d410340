package render

import (
	"sync"

	"go-bi/internal/common/apperrors"

	"go.uber.org/zap"
)

// Manager owns the render handles. Each widget has at most one live
// handle, a handle is never shared between widgets, and a surface hosts
// at most one chart: mounting onto an occupied surface disposes the
// prior instance first.
type Manager struct {
	engine Engine
	logger *zap.Logger

	mu       sync.Mutex
	handles  map[string]*Handle // widget id -> live handle
	surfaces map[string]string  // surface id -> widget id
}

func NewManager(engine Engine, logger *zap.Logger) *Manager {
	return &Manager{
		engine:   engine,
		logger:   logger,
		handles:  make(map[string]*Handle),
		surfaces: make(map[string]string),
	}
}

func (m *Manager) Mount(widgetID string, surface Surface, opts Options) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prevWidget, ok := m.surfaces[surface.ID]; ok {
		m.disposeLocked(prevWidget)
	}
	if _, ok := m.handles[widgetID]; ok {
		m.disposeLocked(widgetID)
	}

	h := NewHandle(m.engine)
	if err := h.Mount(surface, opts); err != nil {
		return nil, err
	}
	m.handles[widgetID] = h
	m.surfaces[surface.ID] = widgetID
	return h, nil
}

func (m *Manager) Update(widgetID string, opts Options) error {
	h, err := m.handle(widgetID)
	if err != nil {
		return err
	}
	return h.Update(opts)
}

func (m *Manager) Resize(widgetID string, width, height float64) error {
	h, err := m.handle(widgetID)
	if err != nil {
		return err
	}
	return h.Resize(width, height)
}

func (m *Manager) Dispose(widgetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handles[widgetID]
	if !ok {
		return apperrors.NewNotFound("render handle", widgetID)
	}
	delete(m.handles, widgetID)
	delete(m.surfaces, h.Surface().ID)
	return h.Dispose()
}

func (m *Manager) Export(widgetID, format string) ([]byte, error) {
	h, err := m.handle(widgetID)
	if err != nil {
		return nil, err
	}
	return h.ExportImage(format)
}

func (m *Manager) handle(widgetID string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handles[widgetID]
	if !ok {
		return nil, apperrors.NewNotFound("render handle", widgetID)
	}
	return h, nil
}

func (m *Manager) disposeLocked(widgetID string) {
	h, ok := m.handles[widgetID]
	if !ok {
		return
	}
	delete(m.handles, widgetID)
	delete(m.surfaces, h.Surface().ID)
	if err := h.Dispose(); err != nil {
		m.logger.Warn("disposing displaced chart", zap.String("widget_id", widgetID), zap.Error(err))
	}
}
