package router

import (
	"go-inventory-history/internal/config"
	"go-inventory-history/internal/handler"
	"go-inventory-history/internal/middleware"
	"go-inventory-history/internal/model"
	"go-inventory-history/internal/service"
	"go-inventory-history/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Auth      service.AuthService
	Inventory service.InventoryService
	Dashboard service.DashboardService
	Users     service.UserService
	Hub       *ws.Hub
}

// NewApp builds the fiber app with the shared error handler and middleware stack.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowCredentials: cfg.Server.CORSOrigins != "*",
	}))
	return app
}

func Setup(app *fiber.App, d Deps) {
	invHandler := handler.NewInventoryHandler(d.Inventory)
	historyHandler := handler.NewHistoryHandler(d.Inventory)
	dashHandler := handler.NewDashboardHandler(d.Dashboard)
	authHandler := handler.NewAuthHandler(d.Auth, d.Config.Auth)
	healthHandler := handler.NewHealthHandler(d.DB)
	userHandler := handler.NewUserHandler(d.Users)

	requireAuth := middleware.RequireAuth(d.Auth, d.Config.Auth.CookieName)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Check)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", requireAuth, authHandler.Me)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/products", invHandler.GetProducts)
	protected.Post("/products", invHandler.CreateProduct)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Put("/products/:id", invHandler.UpdateProduct)
	protected.Delete("/products/:id", invHandler.DeleteProduct)
	protected.Post("/products/:id/stock", invHandler.AdjustStock)
	protected.Get("/products/:id/history", historyHandler.GetProductHistory)

	protected.Get("/history", historyHandler.GetHistory)

	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// User administration (admin role only)
	users := protected.Group("/users", middleware.RequireRole(model.RoleAdmin))
	users.Get("/", userHandler.GetUsers)
	users.Post("/", userHandler.CreateUser)
	users.Get("/:id", userHandler.GetUser)
	users.Patch("/:id/status", userHandler.SetUserStatus)

	if d.Hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", requireAuth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		d.Hub.Register(c)
		defer d.Hub.Unregister(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
