package dashboard

import (
	"go-bi/internal/api"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// Create godoc
// @Summary Create dashboard
// @Description Create a new empty dashboard
// @Tags dashboards
// @Accept json
// @Produce json
// @Param dashboard body DashboardDraft true "Dashboard Draft"
// @Success 201 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Router /api/dashboards [post]
func (c *DashboardController) Create(ctx *fiber.Ctx) error {
	var draft DashboardDraft
	if err := ctx.BodyParser(&draft); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	d, err := c.DashboardService.CreateDashboard(draft)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(d)
}

// List godoc
// @Summary List dashboards
// @Description List all dashboards in the collection
// @Tags dashboards
// @Produce json
// @Success 200 {array} Dashboard
// @Router /api/dashboards [get]
func (c *DashboardController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(c.DashboardService.ListDashboards())
}

// Get godoc
// @Summary Get dashboard
// @Description Get a dashboard by ID
// @Tags dashboards
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {object} Dashboard
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [get]
func (c *DashboardController) Get(ctx *fiber.Ctx) error {
	d, err := c.DashboardService.GetDashboard(ctx.Params("id"))
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(d)
}

// Update godoc
// @Summary Update dashboard
// @Description Apply a partial update to dashboard metadata
// @Tags dashboards
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param patch body DashboardPatch true "Dashboard Patch"
// @Success 200 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [put]
func (c *DashboardController) Update(ctx *fiber.Ctx) error {
	var patch DashboardPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	d, err := c.DashboardService.UpdateDashboard(ctx.Params("id"), patch)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(d)
}

// Delete godoc
// @Summary Delete dashboard
// @Description Delete a dashboard and all its widgets
// @Tags dashboards
// @Param id path string true "Dashboard ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [delete]
func (c *DashboardController) Delete(ctx *fiber.Ctx) error {
	if err := c.DashboardService.DeleteDashboard(ctx.Params("id")); err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Save godoc
// @Summary Persist dashboards
// @Description Write the full in-memory collection to the store
// @Tags dashboards
// @Success 204 {object} nil
// @Failure 500 {object} map[string]interface{}
// @Router /api/dashboards/save [post]
func (c *DashboardController) Save(ctx *fiber.Ctx) error {
	if err := c.DashboardService.Save(ctx.UserContext()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// AddWidget godoc
// @Summary Add widget
// @Description Add a configured chart widget to a dashboard
// @Tags widgets
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param widget body WidgetDraft true "Widget Draft"
// @Success 201 {object} Widget
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets [post]
func (c *DashboardController) AddWidget(ctx *fiber.Ctx) error {
	var draft WidgetDraft
	if err := ctx.BodyParser(&draft); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	w, err := c.DashboardService.AddWidget(ctx.Params("id"), draft)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(w)
}

// UpdateWidget godoc
// @Summary Update widget
// @Description Merge a partial update into a widget's name, config or position
// @Tags widgets
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Param patch body WidgetPatch true "Widget Patch"
// @Success 200 {object} Widget
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId} [put]
func (c *DashboardController) UpdateWidget(ctx *fiber.Ctx) error {
	var patch WidgetPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	w, err := c.DashboardService.UpdateWidget(ctx.Params("id"), ctx.Params("widgetId"), patch)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(w)
}

// DeleteWidget godoc
// @Summary Delete widget
// @Description Remove a widget, preserving the order of the rest
// @Tags widgets
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId} [delete]
func (c *DashboardController) DeleteWidget(ctx *fiber.Ctx) error {
	if err := c.DashboardService.DeleteWidget(ctx.Params("id"), ctx.Params("widgetId")); err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// SetWidgetPosition godoc
// @Summary Set widget position
// @Description Position-only update used at the end of drag/resize gestures
// @Tags widgets
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param widgetId path string true "Widget ID"
// @Param position body WidgetPosition true "Position"
// @Success 200 {object} Widget
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/widgets/{widgetId}/position [put]
func (c *DashboardController) SetWidgetPosition(ctx *fiber.Ctx) error {
	var position WidgetPosition
	if err := ctx.BodyParser(&position); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	w, err := c.DashboardService.SetWidgetPosition(ctx.Params("id"), ctx.Params("widgetId"), position)
	if err != nil {
		return ctx.Status(api.ErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(w)
}
