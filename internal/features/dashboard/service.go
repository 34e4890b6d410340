package dashboard

import (
	"context"
	"sync"

	"go-bi/internal/common/apperrors"

	"go.uber.org/zap"
)

// DashboardService is the public surface of the composition engine. It
// owns the in-memory working copy, serializes access to the CRUD engine
// and persists on explicit Save only.
type DashboardService interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error

	CreateDashboard(draft DashboardDraft) (*Dashboard, error)
	ListDashboards() []Dashboard
	GetDashboard(id string) (*Dashboard, error)
	UpdateDashboard(id string, patch DashboardPatch) (*Dashboard, error)
	DeleteDashboard(id string) error

	AddWidget(dashboardID string, draft WidgetDraft) (*Widget, error)
	GetWidget(dashboardID, widgetID string) (*Widget, error)
	UpdateWidget(dashboardID, widgetID string, patch WidgetPatch) (*Widget, error)
	DeleteWidget(dashboardID, widgetID string) error
	SetWidgetPosition(dashboardID, widgetID string, position WidgetPosition) (*Widget, error)
}

type DashboardServiceImpl struct {
	Engine *Engine
	Store  Store
	Logger *zap.Logger

	mu sync.Mutex
}

func NewDashboardService(store Store, logger *zap.Logger) DashboardService {
	return &DashboardServiceImpl{
		Engine: NewEngine(),
		Store:  store,
		Logger: logger,
	}
}

// Load replaces the working copy with the persisted collection. On
// corruption the raw data is discarded and the service starts from an
// empty collection; the error is still returned so the caller can
// surface it.
func (s *DashboardServiceImpl) Load(ctx context.Context) error {
	dashboards, err := s.Store.LoadAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if apperrors.IsCorruption(err) {
			s.Logger.Error("persisted dashboards are corrupt, starting empty", zap.Error(err))
			s.Engine.Replace(nil)
		}
		return err
	}
	s.Engine.Replace(dashboards)
	s.Logger.Info("loaded dashboards", zap.Int("count", len(dashboards)))
	return nil
}

// Save persists the full collection, not just changed dashboards.
func (s *DashboardServiceImpl) Save(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.Engine.Snapshot()
	s.mu.Unlock()

	return s.Store.SaveAll(ctx, snapshot)
}

func (s *DashboardServiceImpl) CreateDashboard(draft DashboardDraft) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.CreateDashboard(draft)
}

func (s *DashboardServiceImpl) ListDashboards() []Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.ListDashboards()
}

func (s *DashboardServiceImpl) GetDashboard(id string) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.GetDashboard(id)
}

func (s *DashboardServiceImpl) UpdateDashboard(id string, patch DashboardPatch) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.UpdateDashboard(id, patch)
}

func (s *DashboardServiceImpl) DeleteDashboard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.DeleteDashboard(id)
}

func (s *DashboardServiceImpl) AddWidget(dashboardID string, draft WidgetDraft) (*Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.AddWidget(dashboardID, draft)
}

func (s *DashboardServiceImpl) GetWidget(dashboardID, widgetID string) (*Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.GetWidget(dashboardID, widgetID)
}

func (s *DashboardServiceImpl) UpdateWidget(dashboardID, widgetID string, patch WidgetPatch) (*Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.UpdateWidget(dashboardID, widgetID, patch)
}

func (s *DashboardServiceImpl) DeleteWidget(dashboardID, widgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.DeleteWidget(dashboardID, widgetID)
}

func (s *DashboardServiceImpl) SetWidgetPosition(dashboardID, widgetID string, position WidgetPosition) (*Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.SetWidgetPosition(dashboardID, widgetID, position)
}
