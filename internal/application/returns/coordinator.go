// Package returns aplica y revierte devoluciones sobre líneas de venta.
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/sale"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// Coordinator coordinador de devoluciones. Orden de bloqueo: venta, línea/devolución,
// producto, ítem del ledger.
type Coordinator struct {
	txRunner   ports.TxRunner
	reads      ports.Repositories
	ledger     *inventory.Ledger
	authorizer ports.Authorizer
	log        *logger.Logger
	metrics    ports.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configura el Coordinator.
type Option func(*Coordinator)

// WithLogger usa log para los resultados de commit/abort.
func WithLogger(log *logger.Logger) Option {
	return func(c *Coordinator) { c.log = log.Named("returns") }
}

// WithMetrics registra duración y resultado de cada operación.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithClock reloj para CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator construye el coordinador de devoluciones.
func NewCoordinator(txRunner ports.TxRunner, reads ports.Repositories, ledger *inventory.Ledger, authorizer ports.Authorizer, opts ...Option) *Coordinator {
	c := &Coordinator{
		txRunner:   txRunner,
		reads:      reads,
		ledger:     ledger,
		authorizer: authorizer,
		log:        logger.Nop(),
		metrics:    ports.NopMetrics{},
		tracer:     otel.Tracer("github.com/jhoicas/tienda-core/internal/application/returns"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateReturn devuelve unidades de una línea: descuenta la línea, repone el ledger (líneas de
// catálogo), reduce el neto de la venta y la anula si llega a cero. Nunca recorta la cantidad:
// pedir más de lo pendiente falla con OverReturn.
func (c *Coordinator) CreateReturn(ctx context.Context, actor ports.Actor, in dto.CreateReturnRequest) (resp *dto.ReturnResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "returns.CreateReturn", trace.WithAttributes(
		attribute.String("order_line.id", in.OrderLineID),
		attribute.Int64("return.quantity", in.Quantity),
	))
	start := c.now()
	defer func() { c.finish(span, "create_return", start, err) }()

	if err := c.authorizer.Authorize(ctx, actor, ports.OpReturnCreate, actor.ShopID); err != nil {
		return nil, err
	}
	if in.OrderLineID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	// La línea se lee antes para conocer la venta y bloquear en orden venta -> línea.
	probe, err := c.reads.Lines.GetByID(ctx, in.OrderLineID)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		return nil, domain.ErrNotFound
	}

	var ret *entity.Return
	err = c.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		s, err := repos.Sales.GetForUpdate(ctx, probe.SaleID)
		if err != nil {
			return err
		}
		if s == nil || s.ShopID != actor.ShopID {
			return domain.ErrNotFound
		}
		line, err := repos.Lines.GetForUpdate(ctx, in.OrderLineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		if in.Quantity > line.Quantity {
			return domain.OverReturn(line.ID, in.Quantity, line.Quantity)
		}

		closes, err := closesSale(ctx, repos, line, in.Quantity)
		if err != nil {
			return err
		}
		amount := sale.RefundAmount(line.UnitPrice, in.Quantity, s.NetAmount, closes)

		ret = &entity.Return{
			ID:               uuid.New().String(),
			SaleID:           s.ID,
			OrderLineID:      line.ID,
			Quantity:         in.Quantity,
			Reason:           in.Reason,
			Description:      in.Description,
			Amount:           amount,
			Status:           entity.ReturnStatusCompleted,
			LineStatusBefore: line.PaymentStatus,
			SaleStatusBefore: s.Status,
			CreatedBy:        actor.UserID,
			CreatedAt:        c.now(),
		}

		line.Quantity -= in.Quantity
		line.PaymentStatus = sale.LineStatusAfterReturn(line.PaymentStatus, line.Quantity)
		if err := repos.Lines.Update(ctx, line); err != nil {
			return err
		}

		if line.IsCatalog() {
			locationID, err := lineLocation(line)
			if err != nil {
				return err
			}
			if _, err := c.ledger.Restore(ctx, repos, inventory.LedgerInput{
				ProductID:  *line.ProductID,
				LocationID: locationID,
				Quantity:   in.Quantity,
				Reason:     entity.ReasonReturn,
				Reference:  ret.ID,
				ActorID:    actor.UserID,
			}); err != nil {
				return err
			}
		}

		s.NetAmount = s.NetAmount.Sub(amount)
		s.Status = sale.StatusAfterReturn(s.Status, s.NetAmount.IsZero())
		s.UpdatedAt = c.now()
		if err := repos.Sales.Update(ctx, s); err != nil {
			return err
		}
		return repos.Returns.Create(ctx, ret)
	})
	if err != nil {
		c.log.Warn().Err(err).
			Str("order_line_id", in.OrderLineID).
			Int64("quantity", in.Quantity).
			Msg("devolución rechazada")
		return nil, err
	}
	c.log.Info().
		Str("return_id", ret.ID).
		Str("sale_id", ret.SaleID).
		Str("amount", ret.Amount.String()).
		Msg("devolución aplicada")
	return dto.NewReturnResponse(ret), nil
}

// DeleteReturn elimina una devolución aplicando su inversa exacta en una transacción: vuelve a
// reservar el stock (puede fallar con InsufficientStock), devuelve las unidades a la línea y el
// monto a la venta. Una devolución pendiente se elimina sin efectos.
func (c *Coordinator) DeleteReturn(ctx context.Context, actor ports.Actor, returnID string) (err error) {
	ctx, span := c.tracer.Start(ctx, "returns.DeleteReturn", trace.WithAttributes(attribute.String("return.id", returnID)))
	start := c.now()
	defer func() { c.finish(span, "delete_return", start, err) }()

	if err := c.authorizer.Authorize(ctx, actor, ports.OpReturnDelete, actor.ShopID); err != nil {
		return err
	}
	probe, err := c.reads.Returns.GetByID(ctx, returnID)
	if err != nil {
		return err
	}
	if probe == nil {
		return domain.ErrNotFound
	}

	err = c.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		s, err := repos.Sales.GetForUpdate(ctx, probe.SaleID)
		if err != nil {
			return err
		}
		if s == nil || s.ShopID != actor.ShopID {
			return domain.ErrNotFound
		}
		ret, err := repos.Returns.GetForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.ErrNotFound
		}
		if ret.Status == entity.ReturnStatusPending {
			return repos.Returns.Delete(ctx, ret.ID)
		}

		line, err := repos.Lines.GetForUpdate(ctx, ret.OrderLineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("línea %s de la devolución: %w", ret.OrderLineID, domain.ErrNotFound)
		}
		if line.IsCatalog() {
			locationID, err := lineLocation(line)
			if err != nil {
				return err
			}
			if _, err := c.ledger.Reserve(ctx, repos, inventory.LedgerInput{
				ProductID:  *line.ProductID,
				LocationID: locationID,
				Quantity:   ret.Quantity,
				Reason:     entity.ReasonReturnReversal,
				Reference:  ret.ID,
				ActorID:    actor.UserID,
			}); err != nil {
				return err
			}
		}

		s.NetAmount = s.NetAmount.Add(ret.Amount)
		s.Status = sale.StatusAfterReversal(s.Status, ret.SaleStatusBefore, s.NetAmount.IsZero())
		s.UpdatedAt = c.now()
		if err := repos.Sales.Update(ctx, s); err != nil {
			return err
		}

		line.Quantity += ret.Quantity
		line.PaymentStatus = sale.LineStatusAfterReversal(line.PaymentStatus, ret.LineStatusBefore, s.Status)
		if err := repos.Lines.Update(ctx, line); err != nil {
			return err
		}
		return repos.Returns.Delete(ctx, ret.ID)
	})
	if err != nil {
		c.log.Warn().Err(err).Str("return_id", returnID).Msg("eliminación de devolución abortada")
		return err
	}
	c.log.Info().Str("return_id", returnID).Str("sale_id", probe.SaleID).Msg("devolución eliminada")
	return nil
}

// closesSale indica si devolver qty de line deja todas las líneas de la venta en cero.
func closesSale(ctx context.Context, repos ports.Repositories, line *entity.OrderLine, qty int64) (bool, error) {
	if line.Quantity-qty != 0 {
		return false, nil
	}
	lines, err := repos.Lines.ListBySale(ctx, line.SaleID)
	if err != nil {
		return false, err
	}
	for _, l := range lines {
		if l.ID != line.ID && l.Quantity > 0 {
			return false, nil
		}
	}
	return true, nil
}

func lineLocation(line *entity.OrderLine) (string, error) {
	if line.LocationID == nil || *line.LocationID == "" {
		return "", fmt.Errorf("línea %s sin ubicación: %w", line.ID, domain.ErrInvalidInput)
	}
	return *line.LocationID, nil
}

func (c *Coordinator) finish(span trace.Span, operation string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ports.OutcomeLabel(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	c.metrics.ObserveOperation(operation, ports.OutcomeLabel(err), c.now().Sub(start))
}
