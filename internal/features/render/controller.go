package render

import (
	"go-bi/internal/api"

	"github.com/gofiber/fiber/v2"
)

type RenderController struct {
	RenderService RenderService
}

func NewRenderController(renderService RenderService) *RenderController {
	return &RenderController{RenderService: renderService}
}

// Options godoc
// @Summary Build render options
// @Description Translate a widget's configuration and its data rows into chart options
// @Tags render
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Success 200 {object} Options
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/options [get]
func (c *RenderController) Options(ctx *fiber.Ctx) error {
	opts, err := c.RenderService.BuildWidgetOptions(ctx.UserContext(), ctx.Params("id"), ctx.Params("widgetId"))
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(opts)
}

// Mount godoc
// @Summary Mount widget
// @Description Bind a chart instance to a surface and apply initial options
// @Tags render
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Param surface body Surface true "Surface"
// @Success 200 {object} Options
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/surface [post]
func (c *RenderController) Mount(ctx *fiber.Ctx) error {
	var surface Surface
	if err := ctx.BodyParser(&surface); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	opts, err := c.RenderService.MountWidget(ctx.UserContext(), ctx.Params("id"), ctx.Params("widgetId"), surface)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(opts)
}

// Refresh godoc
// @Summary Refresh widget
// @Description Rebuild options from current configuration and re-apply them to the mounted instance
// @Tags render
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Success 200 {object} Options
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/surface [put]
func (c *RenderController) Refresh(ctx *fiber.Ctx) error {
	opts, err := c.RenderService.RefreshWidget(ctx.UserContext(), ctx.Params("id"), ctx.Params("widgetId"))
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(opts)
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Resize godoc
// @Summary Resize widget surface
// @Description Notify the chart instance that its surface area changed
// @Tags render
// @Accept json
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Param size body resizeRequest true "New size"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/surface/size [put]
func (c *RenderController) Resize(ctx *fiber.Ctx) error {
	var req resizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.RenderService.ResizeWidget(ctx.Params("widgetId"), req.Width, req.Height); err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Dispose godoc
// @Summary Dispose widget surface
// @Description Release the chart instance bound to the widget
// @Tags render
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/surface [delete]
func (c *RenderController) Dispose(ctx *fiber.Ctx) error {
	if err := c.RenderService.DisposeWidget(ctx.Params("widgetId")); err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary Export widget image
// @Description Capture the current rendered frame
// @Tags render
// @Produce image/svg+xml
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Param format query string false "Image format" default(svg)
// @Success 200 {string} binary
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/export [get]
func (c *RenderController) Export(ctx *fiber.Ctx) error {
	format := ctx.Query("format", "svg")
	data, err := c.RenderService.ExportWidget(ctx.Params("widgetId"), format)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if format == "svg" {
		ctx.Set(fiber.HeaderContentType, "image/svg+xml")
	}
	return ctx.Send(data)
}
