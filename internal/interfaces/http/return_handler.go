package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/returns"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// ReturnHandler devoluciones (protegido).
type ReturnHandler struct {
	uc       *returns.Coordinator
	validate *validator.Validate
	log      *logger.Logger
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *returns.Coordinator, validate *validator.Validate, log *logger.Logger) *ReturnHandler {
	return &ReturnHandler{uc: uc, validate: validate, log: log}
}

// Create POST /api/returns
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.uc.CreateReturn(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete DELETE /api/returns/:id
func (h *ReturnHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteReturn(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
