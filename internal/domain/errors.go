package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrProductNotFound         = errors.New("producto no encontrado")
	ErrInvalidAmount           = errors.New("monto inválido")
	ErrOverReturn              = errors.New("la devolución supera la cantidad pendiente")
	ErrDocumentConflict        = errors.New("la venta ya tiene documento de liquidación")
	ErrInvalidStatusTransition = errors.New("transición de estado inválida")
	ErrPersistenceFailure      = errors.New("no se pudo confirmar la transacción")
	ErrDuplicateSubmission     = errors.New("el envío ya está en proceso")
)

// Error es un fallo de negocio con la entidad que lo provocó.
// Kind es uno de los errores centinela de este paquete; errors.Is compara contra él.
type Error struct {
	Kind     error
	EntityID string
	Detail   string
	cause    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.EntityID != "" {
		msg += " (" + e.EntityID + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap expone tanto el tipo como la causa original para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// InsufficientStock no hay cantidad suficiente del producto en la ubicación.
func InsufficientStock(productID string) error {
	return &Error{Kind: ErrInsufficientStock, EntityID: productID}
}

// ProductNotFound el producto no existe en el catálogo de la tienda o no tiene stock en la ubicación.
func ProductNotFound(productID string) error {
	return &Error{Kind: ErrProductNotFound, EntityID: productID}
}

// InvalidAmount totales negativos o inconsistentes.
func InvalidAmount(detail string) error {
	return &Error{Kind: ErrInvalidAmount, Detail: detail}
}

// OverReturn se intenta devolver más de lo que queda en la línea.
func OverReturn(orderLineID string, requested, remaining int64) error {
	return &Error{Kind: ErrOverReturn, EntityID: orderLineID, Detail: fmt.Sprintf("solicitado %d, pendiente %d", requested, remaining)}
}

// DocumentConflict la venta ya tiene recibo o factura.
func DocumentConflict(saleID string) error {
	return &Error{Kind: ErrDocumentConflict, EntityID: saleID}
}

// InvalidTransition cambio de estado no permitido.
func InvalidTransition(entityID, from, to string) error {
	return &Error{Kind: ErrInvalidStatusTransition, EntityID: entityID, Detail: from + " -> " + to}
}

// PersistenceFailure la transacción no se confirmó; nada quedó escrito y es seguro reintentar.
func PersistenceFailure(cause error) error {
	return &Error{Kind: ErrPersistenceFailure, cause: cause}
}

// EntityID devuelve el id de la entidad asociada al error, si lo hay.
func EntityID(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.EntityID
	}
	return ""
}
