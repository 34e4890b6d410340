package composer

import (
	"go-bi/internal/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ComposerApi struct {
	ComposerController *ComposerController
}

func NewComposerApi(composerController *ComposerController) api.Route {
	return &ComposerApi{ComposerController: composerController}
}

// Setup registers the composition WebSocket route
func (a *ComposerApi) Setup(app *fiber.App) {
	app.Get("/ws/composer", websocket.New(a.ComposerController.HandleWebSocket))
}
