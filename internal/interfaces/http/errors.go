package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

var errorMapping = []struct {
	kind    error
	status  int
	code    string
	message string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT", "montos inválidos"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND", "producto no encontrado en la ubicación"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "token inválido"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrOverReturn, fiber.StatusConflict, "OVER_RETURN", "la devolución supera lo vendido"},
	{domain.ErrDocumentConflict, fiber.StatusConflict, "DOCUMENT_CONFLICT", "la venta ya tiene documento"},
	{domain.ErrInvalidStatusTransition, fiber.StatusConflict, "INVALID_TRANSITION", "transición de estado inválida"},
	{domain.ErrDuplicateSubmission, fiber.StatusConflict, "DUPLICATE_SUBMISSION", "la venta ya se está procesando"},
	{domain.ErrPersistenceFailure, fiber.StatusServiceUnavailable, "RETRYABLE", "no se pudo confirmar, intente de nuevo"},
}

// respondError traduce errores de dominio a status + código. Lo no mapeado es 500.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.kind) {
			return c.Status(m.status).JSON(dto.ErrorResponse{
				Code:     m.code,
				Message:  m.message,
				EntityID: domain.EntityID(err),
			})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// bindJSON parsea el body y ejecuta las reglas `validate` del DTO.
// Devuelve false si ya respondió con 400.
func bindJSON(c *fiber.Ctx, v *validator.Validate, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return checkStruct(c, v, out)
}

func checkStruct(c *fiber.Ctx, v *validator.Validate, in any) (bool, error) {
	err := v.Struct(in)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
}
