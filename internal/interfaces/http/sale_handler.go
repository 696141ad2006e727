package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/application/sales"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// IdempotencyHeader cabecera que identifica un envío de checkout.
const IdempotencyHeader = "Idempotency-Key"

// SaleHandler maneja ventas (protegido).
type SaleHandler struct {
	uc       *sales.Coordinator
	guard    ports.SubmissionGuard
	validate *validator.Validate
	log      *logger.Logger
}

// NewSaleHandler guard puede ser nil: sin él la cabecera Idempotency-Key se ignora.
func NewSaleHandler(uc *sales.Coordinator, guard ports.SubmissionGuard, validate *validator.Validate, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, guard: guard, validate: validate, log: log}
}

// Create POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	actor := GetActor(c)
	ctx := c.UserContext()

	key := c.Get(IdempotencyHeader)
	if h.guard == nil || key == "" {
		out, err := h.uc.CreateSale(ctx, actor, in)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}

	var out *dto.SaleResponse
	saleID, replayed, err := h.guard.Do(ctx, actor.ShopID, key, func(ctx context.Context) (string, error) {
		resp, err := h.uc.CreateSale(ctx, actor, in)
		if err != nil {
			return "", err
		}
		out = resp
		return resp.ID, nil
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !replayed {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	existing, err := h.uc.GetSaleDetails(ctx, actor, saleID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set("Idempotent-Replayed", "true")
	return c.Status(fiber.StatusOK).JSON(existing)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSaleDetails(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/sales/:id/status
func (h *SaleHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateSaleStatusRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateSaleStatus(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
