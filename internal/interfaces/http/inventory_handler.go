package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc       *inventory.RegisterMovementUseCase
	validate *validator.Validate
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, validate *validator.Validate, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, validate: validate, log: log}
}

// RegisterMovement POST /api/inventory/movements
// IN, OUT, ADJUSTMENT (cantidad con signo) o TRANSFER entre ubicaciones.
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements GET /api/inventory/items/:id/movements?limit=&offset=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	if ok, err := checkStruct(c, h.validate, &page); !ok {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), GetActor(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
