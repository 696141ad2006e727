package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/application/returns"
	"github.com/jhoicas/tienda-core/internal/application/sales"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales            *sales.Coordinator
	Returns          *returns.Coordinator
	RegisterMovement *inventory.RegisterMovementUseCase
	Guard            ports.SubmissionGuard // opcional
	Metrics          http.Handler          // opcional; expuesto en /metrics
	JWTSecret        string
	AppName          string
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	validate := validator.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	saleHandler := NewSaleHandler(deps.Sales, deps.Guard, validate, log)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Patch("/:id/status", saleHandler.UpdateStatus)

	returnHandler := NewReturnHandler(deps.Returns, validate, log)
	returnsGroup := api.Group("/returns")
	returnsGroup.Post("/", returnHandler.Create)
	returnsGroup.Delete("/:id", returnHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, validate, log)
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/items/:id/movements", inventoryHandler.ListMovements)
}
