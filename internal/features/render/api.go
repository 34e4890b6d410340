package render

import (
	"go-bi/internal/api"

	"github.com/gofiber/fiber/v2"
)

type RenderApi struct {
	RenderController *RenderController
}

func NewRenderApi(renderController *RenderController) api.Route {
	return &RenderApi{RenderController: renderController}
}

func (a *RenderApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboards/:id/widgets/:widgetId")

	group.Get("/options", a.RenderController.Options)
	group.Post("/surface", a.RenderController.Mount)
	group.Put("/surface", a.RenderController.Refresh)
	group.Put("/surface/size", a.RenderController.Resize)
	group.Delete("/surface", a.RenderController.Dispose)
	group.Get("/export", a.RenderController.Export)
}
