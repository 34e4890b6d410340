package composer

import (
	"context"

	"go-bi/internal/common/apperrors"
	"go-bi/internal/features/dashboard"
	"go-bi/internal/features/render"

	"go.uber.org/zap"
)

const (
	RenderStateRendered    = "rendered"
	RenderStatePlaceholder = "placeholder"
)

// EditResult reports the outcome of a property edit or gesture: the
// committed widget plus how the visual side went. A placeholder render
// state means the data change stuck but the chart could not refresh.
type EditResult struct {
	Widget      *dashboard.Widget `json:"widget"`
	RenderState string            `json:"render_state"`
	Options     *render.Options   `json:"options,omitempty"`
	RenderError string            `json:"render_error,omitempty"`
}

type dragState struct {
	widgetID string
	origin   dashboard.WidgetPosition
}

// Session mediates one shell connection's gestures. It holds the
// transient UI state (open dashboard, selection, drag-in-progress) and
// routes every mutation through the CRUD engine. It is bound to a single
// connection and not safe for concurrent use.
type Session struct {
	dashboards dashboard.DashboardService
	renders    render.RenderService
	logger     *zap.Logger

	dashboardID string
	selectedID  string
	drag        *dragState
}

func NewSession(
	dashboards dashboard.DashboardService,
	renders render.RenderService,
	logger *zap.Logger,
) *Session {
	return &Session{
		dashboards: dashboards,
		renders:    renders,
		logger:     logger,
	}
}

// Open binds the session to a dashboard.
func (s *Session) Open(dashboardID string) (*dashboard.Dashboard, error) {
	d, err := s.dashboards.GetDashboard(dashboardID)
	if err != nil {
		return nil, err
	}
	s.dashboardID = d.ID
	s.selectedID = ""
	s.drag = nil
	return d, nil
}

// Select resolves the widget from the current snapshot and exposes it
// read-only to property editors.
func (s *Session) Select(widgetID string) (*dashboard.Widget, error) {
	if s.dashboardID == "" {
		return nil, &apperrors.InvalidStateError{Op: "select", State: "no dashboard open"}
	}
	w, err := s.dashboards.GetWidget(s.dashboardID, widgetID)
	if err != nil {
		return nil, err
	}
	s.selectedID = w.ID
	return w, nil
}

func (s *Session) SelectedWidgetID() string { return s.selectedID }

// Edit applies a property edit, then refreshes the widget's chart. The
// two steps are deliberately not atomic: a render failure is downgraded
// to a placeholder so the configuration change is never lost.
func (s *Session) Edit(ctx context.Context, widgetID string, patch dashboard.WidgetPatch) (*EditResult, error) {
	if s.dashboardID == "" {
		return nil, &apperrors.InvalidStateError{Op: "edit", State: "no dashboard open"}
	}

	w, err := s.dashboards.UpdateWidget(s.dashboardID, widgetID, patch)
	if err != nil {
		return nil, err
	}

	result := &EditResult{Widget: w, RenderState: RenderStateRendered}
	opts, err := s.renders.RefreshWidget(ctx, s.dashboardID, widgetID)
	if err != nil {
		s.logger.Warn("widget updated but chart refresh failed",
			zap.String("widget_id", widgetID), zap.Error(err))
		result.RenderState = RenderStatePlaceholder
		result.RenderError = err.Error()
		return result, nil
	}
	result.Options = &opts
	return result, nil
}

// BeginDrag records the gesture start. Nothing is written until EndDrag.
func (s *Session) BeginDrag(widgetID string) error {
	if s.dashboardID == "" {
		return &apperrors.InvalidStateError{Op: "dragStart", State: "no dashboard open"}
	}
	w, err := s.dashboards.GetWidget(s.dashboardID, widgetID)
	if err != nil {
		return err
	}
	s.drag = &dragState{widgetID: w.ID, origin: w.Position}
	return nil
}

// CancelDrag aborts the gesture. The widget keeps its last committed
// position; no partial update was ever issued.
func (s *Session) CancelDrag() {
	s.drag = nil
}

// EndDrag commits the final position in a single engine call, then lets
// the chart instance know its area changed. Render trouble is non-fatal.
func (s *Session) EndDrag(ctx context.Context, widgetID string, position dashboard.WidgetPosition) (*EditResult, error) {
	if s.drag == nil || s.drag.widgetID != widgetID {
		return nil, &apperrors.InvalidStateError{Op: "dragEnd", State: "no drag in progress"}
	}
	s.drag = nil

	w, err := s.dashboards.SetWidgetPosition(s.dashboardID, widgetID, position)
	if err != nil {
		return nil, err
	}

	result := &EditResult{Widget: w, RenderState: RenderStateRendered}
	if err := s.renders.ResizeWidget(widgetID, position.Width, position.Height); err != nil {
		s.logger.Warn("position committed but chart resize failed",
			zap.String("widget_id", widgetID), zap.Error(err))
		result.RenderState = RenderStatePlaceholder
		result.RenderError = err.Error()
	}
	return result, nil
}

// Save persists the full in-memory collection, not just the open
// dashboard.
func (s *Session) Save(ctx context.Context) error {
	return s.dashboards.Save(ctx)
}
