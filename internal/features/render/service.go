package render

import (
	"context"

	"go-bi/internal/features/dashboard"
	"go-bi/internal/features/datasource"

	"go.uber.org/zap"
)

// RenderService joins the dashboard collection, the data source resolver
// and the handle manager behind one surface for shells and the composer.
type RenderService interface {
	BuildWidgetOptions(ctx context.Context, dashboardID, widgetID string) (Options, error)
	MountWidget(ctx context.Context, dashboardID, widgetID string, surface Surface) (Options, error)
	RefreshWidget(ctx context.Context, dashboardID, widgetID string) (Options, error)
	ResizeWidget(widgetID string, width, height float64) error
	DisposeWidget(widgetID string) error
	ExportWidget(widgetID, format string) ([]byte, error)
}

type RenderServiceImpl struct {
	DashboardService dashboard.DashboardService
	Resolver         datasource.Resolver
	Manager          *Manager
	Logger           *zap.Logger
}

func NewRenderService(
	dashboardService dashboard.DashboardService,
	resolver datasource.Resolver,
	manager *Manager,
	logger *zap.Logger,
) RenderService {
	return &RenderServiceImpl{
		DashboardService: dashboardService,
		Resolver:         resolver,
		Manager:          manager,
		Logger:           logger,
	}
}

func (s *RenderServiceImpl) BuildWidgetOptions(ctx context.Context, dashboardID, widgetID string) (Options, error) {
	w, err := s.DashboardService.GetWidget(dashboardID, widgetID)
	if err != nil {
		return Options{}, err
	}
	_, rows, err := s.Resolver.Resolve(ctx, w.DataSourceID)
	if err != nil {
		return Options{}, err
	}
	return BuildOptions(*w, rows), nil
}

func (s *RenderServiceImpl) MountWidget(ctx context.Context, dashboardID, widgetID string, surface Surface) (Options, error) {
	opts, err := s.BuildWidgetOptions(ctx, dashboardID, widgetID)
	if err != nil {
		return Options{}, err
	}
	if _, err := s.Manager.Mount(widgetID, surface, opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (s *RenderServiceImpl) RefreshWidget(ctx context.Context, dashboardID, widgetID string) (Options, error) {
	opts, err := s.BuildWidgetOptions(ctx, dashboardID, widgetID)
	if err != nil {
		return Options{}, err
	}
	if err := s.Manager.Update(widgetID, opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (s *RenderServiceImpl) ResizeWidget(widgetID string, width, height float64) error {
	return s.Manager.Resize(widgetID, width, height)
}

func (s *RenderServiceImpl) DisposeWidget(widgetID string) error {
	return s.Manager.Dispose(widgetID)
}

func (s *RenderServiceImpl) ExportWidget(widgetID, format string) ([]byte, error) {
	return s.Manager.Export(widgetID, format)
}
