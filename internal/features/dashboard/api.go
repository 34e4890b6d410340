package dashboard

import (
	"go-bi/internal/api"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
}

func NewDashboardApi(dashboardController *DashboardController) api.Route {
	return &DashboardApi{DashboardController: dashboardController}
}

func (a *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboards")

	group.Post("/", a.DashboardController.Create)
	group.Get("/", a.DashboardController.List)
	group.Post("/save", a.DashboardController.Save)
	group.Get("/:id", a.DashboardController.Get)
	group.Put("/:id", a.DashboardController.Update)
	group.Delete("/:id", a.DashboardController.Delete)

	group.Post("/:id/widgets", a.DashboardController.AddWidget)
	group.Put("/:id/widgets/:widgetId", a.DashboardController.UpdateWidget)
	group.Delete("/:id/widgets/:widgetId", a.DashboardController.DeleteWidget)
	group.Put("/:id/widgets/:widgetId/position", a.DashboardController.SetWidgetPosition)
}
