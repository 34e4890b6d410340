package dashboard

import (
	"strings"
	"time"

	"go-bi/internal/common/apperrors"

	"github.com/google/uuid"
)

// Defaults for widgets added without an explicit position.
var defaultPosition = WidgetPosition{X: 0, Y: 0, Width: 400, Height: 300}

// Engine is the sole mutator of the in-memory dashboard collection. It
// enforces the aggregate invariants: unique ids, positive widget sizes,
// UpdatedAt refreshed on every mutation, insertion order preserved.
// It is not safe for concurrent use; the service serializes access.
type Engine struct {
	dashboards []*Dashboard
	byID       map[string]*Dashboard

	now   func() time.Time
	newID func() string
}

func NewEngine() *Engine {
	return &Engine{
		byID:  make(map[string]*Dashboard),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Replace swaps the whole collection, e.g. after a store load.
func (e *Engine) Replace(dashboards []Dashboard) {
	e.dashboards = make([]*Dashboard, 0, len(dashboards))
	e.byID = make(map[string]*Dashboard, len(dashboards))
	for _, d := range dashboards {
		clone := d.Clone()
		e.dashboards = append(e.dashboards, &clone)
		e.byID[clone.ID] = &clone
	}
}

// Snapshot returns a deep copy of the collection in insertion order.
func (e *Engine) Snapshot() []Dashboard {
	out := make([]Dashboard, 0, len(e.dashboards))
	for _, d := range e.dashboards {
		out = append(out, d.Clone())
	}
	return out
}

func (e *Engine) CreateDashboard(draft DashboardDraft) (*Dashboard, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name", "must not be blank")
	}

	now := e.now()
	d := &Dashboard{
		ID:          e.newID(),
		Name:        name,
		Description: draft.Description,
		Layout:      LayoutGrid,
		Charts:      []Widget{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.dashboards = append(e.dashboards, d)
	e.byID[d.ID] = d

	clone := d.Clone()
	return &clone, nil
}

func (e *Engine) ListDashboards() []Dashboard {
	return e.Snapshot()
}

func (e *Engine) GetDashboard(id string) (*Dashboard, error) {
	d, ok := e.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("dashboard", id)
	}
	clone := d.Clone()
	return &clone, nil
}

func (e *Engine) UpdateDashboard(id string, patch DashboardPatch) (*Dashboard, error) {
	d, ok := e.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("dashboard", id)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidation("name", "must not be blank")
		}
		d.Name = name
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Layout != nil {
		if !patch.Layout.Valid() {
			return nil, apperrors.NewValidation("layout", "must be grid or flexible")
		}
		d.Layout = *patch.Layout
	}
	e.touch(d)

	clone := d.Clone()
	return &clone, nil
}

// DeleteDashboard removes the dashboard and all its widgets as a unit.
// Deleting the same id twice fails on the second call.
func (e *Engine) DeleteDashboard(id string) error {
	if _, ok := e.byID[id]; !ok {
		return apperrors.NewNotFound("dashboard", id)
	}
	delete(e.byID, id)
	for i, d := range e.dashboards {
		if d.ID == id {
			e.dashboards = append(e.dashboards[:i], e.dashboards[i+1:]...)
			break
		}
	}
	return nil
}

func (e *Engine) AddWidget(dashboardID string, draft WidgetDraft) (*Widget, error) {
	d, ok := e.byID[dashboardID]
	if !ok {
		return nil, apperrors.NewNotFound("dashboard", dashboardID)
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	position := defaultPosition
	if draft.Position != nil {
		position = *draft.Position
	}

	w := Widget{
		ID:           e.newID(),
		Name:         draft.Name,
		ChartType:    draft.ChartType,
		DataSourceID: strings.TrimSpace(draft.DataSourceID),
		Config:       draft.Config.Clone(),
		Position:     position,
		CreatedAt:    e.now(),
	}
	d.Charts = append(d.Charts, w)
	e.touch(d)

	clone := w.Clone()
	return &clone, nil
}

func (e *Engine) GetWidget(dashboardID, widgetID string) (*Widget, error) {
	d, ok := e.byID[dashboardID]
	if !ok {
		return nil, apperrors.NewNotFound("dashboard", dashboardID)
	}
	for _, w := range d.Charts {
		if w.ID == widgetID {
			clone := w.Clone()
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFound("widget", widgetID)
}

// UpdateWidget merges the patch into the widget. ID and CreatedAt are
// never reassigned; the config merge is shallow at the top level.
func (e *Engine) UpdateWidget(dashboardID, widgetID string, patch WidgetPatch) (*Widget, error) {
	d, ok := e.byID[dashboardID]
	if !ok {
		return nil, apperrors.NewNotFound("dashboard", dashboardID)
	}
	w := findWidget(d, widgetID)
	if w == nil {
		return nil, apperrors.NewNotFound("widget", widgetID)
	}

	merged := w.Config.Clone()
	if patch.Config != nil {
		applyConfigPatch(&merged, patch.Config)
		if err := merged.validate(); err != nil {
			return nil, err
		}
	}
	if patch.Position != nil {
		if err := patch.Position.validate(); err != nil {
			return nil, err
		}
	}

	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.Config != nil {
		w.Config = merged
	}
	if patch.Position != nil {
		w.Position = *patch.Position
	}
	e.touch(d)

	clone := w.Clone()
	return &clone, nil
}

// DeleteWidget removes the widget, keeping the relative order of the rest.
func (e *Engine) DeleteWidget(dashboardID, widgetID string) error {
	d, ok := e.byID[dashboardID]
	if !ok {
		return apperrors.NewNotFound("dashboard", dashboardID)
	}
	for i, w := range d.Charts {
		if w.ID == widgetID {
			d.Charts = append(d.Charts[:i], d.Charts[i+1:]...)
			e.touch(d)
			return nil
		}
	}
	return apperrors.NewNotFound("widget", widgetID)
}

// SetWidgetPosition is the position-only fast path used by drag/resize.
// No collision resolution: overlapping widgets are allowed.
func (e *Engine) SetWidgetPosition(dashboardID, widgetID string, position WidgetPosition) (*Widget, error) {
	d, ok := e.byID[dashboardID]
	if !ok {
		return nil, apperrors.NewNotFound("dashboard", dashboardID)
	}
	w := findWidget(d, widgetID)
	if w == nil {
		return nil, apperrors.NewNotFound("widget", widgetID)
	}
	if err := position.validate(); err != nil {
		return nil, err
	}

	w.Position = position
	e.touch(d)

	clone := w.Clone()
	return &clone, nil
}

func findWidget(d *Dashboard, widgetID string) *Widget {
	for i := range d.Charts {
		if d.Charts[i].ID == widgetID {
			return &d.Charts[i]
		}
	}
	return nil
}

func applyConfigPatch(c *WidgetConfig, p *ConfigPatch) {
	if p.XAxis != nil {
		c.XAxis = *p.XAxis
	}
	if p.YAxis != nil {
		c.YAxis = *p.YAxis
	}
	if p.Series != nil {
		c.Series = append([]string(nil), (*p.Series)...)
	}
	if p.Aggregation != nil {
		c.Aggregation = *p.Aggregation
	}
	if p.Filters != nil {
		c.Filters = append([]Filter(nil), (*p.Filters)...)
	}
	if p.Sort != nil {
		sort := *p.Sort
		c.Sort = &sort
	}
}

// touch refreshes UpdatedAt, clamped so it never precedes CreatedAt.
func (e *Engine) touch(d *Dashboard) {
	d.UpdatedAt = e.now()
	if d.UpdatedAt.Before(d.CreatedAt) {
		d.UpdatedAt = d.CreatedAt
	}
}
