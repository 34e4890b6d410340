package composer

import (
	"context"

	"go-bi/internal/features/dashboard"
	"go-bi/internal/features/render"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type message struct {
	Action      string                    `json:"action"`
	DashboardID string                    `json:"dashboard_id,omitempty"`
	WidgetID    string                    `json:"widget_id,omitempty"`
	Patch       *dashboard.WidgetPatch    `json:"patch,omitempty"`
	Position    *dashboard.WidgetPosition `json:"position,omitempty"`
}

type reply struct {
	Action      string               `json:"action"`
	OK          bool                 `json:"ok"`
	Error       string               `json:"error,omitempty"`
	Dashboard   *dashboard.Dashboard `json:"dashboard,omitempty"`
	Widget      *dashboard.Widget    `json:"widget,omitempty"`
	RenderState string               `json:"render_state,omitempty"`
	Options     *render.Options      `json:"options,omitempty"`
}

type ComposerController struct {
	DashboardService dashboard.DashboardService
	RenderService    render.RenderService
	Logger           *zap.Logger
}

func NewComposerController(
	dashboardService dashboard.DashboardService,
	renderService render.RenderService,
	logger *zap.Logger,
) *ComposerController {
	return &ComposerController{
		DashboardService: dashboardService,
		RenderService:    renderService,
		Logger:           logger,
	}
}

// HandleWebSocket runs one composition session per connection. Malformed
// frames get an error reply; the loop only ends when the peer goes away.
func (c *ComposerController) HandleWebSocket(conn *websocket.Conn) {
	session := NewSession(c.DashboardService, c.RenderService, c.Logger)
	ctx := context.Background()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.write(conn, reply{Action: "error", Error: "malformed message"})
			continue
		}
		c.write(conn, c.dispatch(ctx, session, msg))
	}
}

func (c *ComposerController) dispatch(ctx context.Context, session *Session, msg message) reply {
	switch msg.Action {
	case "open":
		d, err := session.Open(msg.DashboardID)
		if err != nil {
			return fail(msg.Action, err)
		}
		return reply{Action: msg.Action, OK: true, Dashboard: d}

	case "select":
		w, err := session.Select(msg.WidgetID)
		if err != nil {
			return fail(msg.Action, err)
		}
		return reply{Action: msg.Action, OK: true, Widget: w}

	case "edit":
		if msg.Patch == nil {
			return reply{Action: msg.Action, Error: "edit requires a patch"}
		}
		result, err := session.Edit(ctx, msg.WidgetID, *msg.Patch)
		if err != nil {
			return fail(msg.Action, err)
		}
		return resultReply(msg.Action, result)

	case "dragStart":
		if err := session.BeginDrag(msg.WidgetID); err != nil {
			return fail(msg.Action, err)
		}
		return reply{Action: msg.Action, OK: true}

	case "dragCancel":
		session.CancelDrag()
		return reply{Action: msg.Action, OK: true}

	case "dragEnd":
		if msg.Position == nil {
			return reply{Action: msg.Action, Error: "dragEnd requires a position"}
		}
		result, err := session.EndDrag(ctx, msg.WidgetID, *msg.Position)
		if err != nil {
			return fail(msg.Action, err)
		}
		return resultReply(msg.Action, result)

	case "save":
		if err := session.Save(ctx); err != nil {
			return fail(msg.Action, err)
		}
		return reply{Action: msg.Action, OK: true}
	}

	return reply{Action: msg.Action, Error: "unknown action " + msg.Action}
}

func (c *ComposerController) write(conn *websocket.Conn, r reply) {
	data, err := json.Marshal(r)
	if err != nil {
		c.Logger.Error("encoding composer reply", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.Logger.Debug("writing composer reply", zap.Error(err))
	}
}

func fail(action string, err error) reply {
	return reply{Action: action, Error: err.Error()}
}

func resultReply(action string, result *EditResult) reply {
	return reply{
		Action:      action,
		OK:          true,
		Error:       result.RenderError,
		Widget:      result.Widget,
		RenderState: result.RenderState,
		Options:     result.Options,
	}
}
