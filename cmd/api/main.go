package main

import (
	"context"
	"fmt"
	"log"

	"go-bi/internal/api"
	"go-bi/internal/config"
	"go-bi/internal/database"
	"go-bi/internal/features/composer"
	"go-bi/internal/features/dashboard"
	"go-bi/internal/features/datasource"
	"go-bi/internal/features/render"
	"go-bi/internal/logger"
	"go-bi/internal/middleware"

	_ "go-bi/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(api.Route)),           // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// NewStorageBackends picks the dashboard blob store and the row resolver
// for the configured backend. Mongo serves both when selected; the
// embedded backends pair the blob store with the built-in sample data.
func NewStorageBackends(lc fx.Lifecycle, cfg *config.Config) (dashboard.Store, datasource.Resolver, error) {
	switch cfg.StoreBackend {
	case "mongo":
		db, err := database.NewDatabase(lc, cfg)
		if err != nil {
			return nil, nil, err
		}
		return dashboard.NewMongoStore(db), datasource.NewMongoResolver(db), nil

	case "memory":
		return dashboard.NewMemoryStore(), sampleResolver(), nil

	default:
		db, err := database.NewBadgerDB(lc, cfg)
		if err != nil {
			return nil, nil, err
		}
		return dashboard.NewBadgerStore(db), sampleResolver(), nil
	}
}

// sampleResolver registers the demo dataset served when no Mongo row
// backend is configured.
func sampleResolver() *datasource.StaticResolver {
	r := datasource.NewStaticResolver()
	r.Register("sample-sales", datasource.Dataset{
		Columns: []datasource.Column{
			{Name: "month", Type: "string"},
			{Name: "region", Type: "string"},
			{Name: "revenue", Type: "number"},
			{Name: "units", Type: "number"},
		},
		Rows: []datasource.Row{
			{"month": "Jan", "region": "north", "revenue": 1250.0, "units": 31.0},
			{"month": "Jan", "region": "south", "revenue": 980.0, "units": 24.0},
			{"month": "Feb", "region": "north", "revenue": 1410.0, "units": 36.0},
			{"month": "Feb", "region": "south", "revenue": 1105.0, "units": 27.0},
			{"month": "Mar", "region": "north", "revenue": 1620.0, "units": 40.0},
			{"month": "Mar", "region": "south", "revenue": 1290.0, "units": 33.0},
		},
	})
	return r
}

func NewRenderEngine() render.Engine {
	return render.NewSVGEngine()
}

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// LoadDashboards pulls the persisted collection into memory at startup.
// Corrupt data is surfaced in the log and discarded; the service starts
// from an empty collection rather than guessing at a repair.
func LoadDashboards(lc fx.Lifecycle, svc dashboard.DashboardService, zlog *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := svc.Load(ctx); err != nil {
				zlog.Error("loading persisted dashboards", zap.Error(err))
			}
			return nil
		},
	})
}

// @title           Dashboard Composer API
// @version         1.0
// @description     Dashboard composition and widget configuration service.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Storage + data source backends
			NewStorageBackends,
			NewRenderEngine,

			// Services
			dashboard.NewDashboardService,
			render.NewManager,
			render.NewRenderService,

			// Controllers
			dashboard.NewDashboardController,
			render.NewRenderController,
			composer.NewComposerController,

			// API Routes
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(render.NewRenderApi),
			AsRoute(composer.NewComposerApi),
			AsRoute(api.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			LoadDashboards,
			StartServer,
		),
	)

	app.Run()
}
