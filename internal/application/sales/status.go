package sales

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/sale"
)

// UpdateSaleStatus cambia el eje de pago o de entrega de una venta. No recalcula montos.
//   - payment: pending -> paid. La venta queda completed, las líneas pendientes pasan a paid
//     y la factura queda pagada.
//   - delivery: solo avanza (pending -> shipped -> delivered) y nunca en ventas anuladas.
func (c *Coordinator) UpdateSaleStatus(ctx context.Context, actor ports.Actor, saleID string, in dto.UpdateSaleStatusRequest) (resp *dto.SaleResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "sales.UpdateSaleStatus", trace.WithAttributes(
		attribute.String("sale.id", saleID),
		attribute.String("status.dimension", in.Dimension),
		attribute.String("status.value", in.Value),
	))
	start := c.now()
	defer func() { c.finish(span, "update_sale_status", start, err) }()

	if err := c.authorizer.Authorize(ctx, actor, ports.OpSaleUpdateStatus, actor.ShopID); err != nil {
		return nil, err
	}
	if saleID == "" || in.Value == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Dimension != sale.DimensionPayment && in.Dimension != sale.DimensionDelivery {
		return nil, domain.ErrInvalidInput
	}

	err = c.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		s, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil || s.ShopID != actor.ShopID {
			return domain.ErrNotFound
		}

		switch in.Dimension {
		case sale.DimensionPayment:
			if err := c.settlePayment(ctx, repos, s, in.Value); err != nil {
				return err
			}
		case sale.DimensionDelivery:
			if !sale.CanAdvanceDelivery(s.Status, s.DeliveryStatus, in.Value) {
				return domain.InvalidTransition(s.ID, s.DeliveryStatus, in.Value)
			}
			s.DeliveryStatus = in.Value
		}
		s.UpdatedAt = c.now()
		if err := repos.Sales.Update(ctx, s); err != nil {
			return err
		}

		resp, err = loadDetails(ctx, repos, s)
		return err
	})
	if err != nil {
		c.log.Warn().Err(err).Str("sale_id", saleID).Str("dimension", in.Dimension).Str("value", in.Value).Msg("cambio de estado rechazado")
		return nil, err
	}
	c.log.Info().Str("sale_id", saleID).Str("dimension", in.Dimension).Str("value", in.Value).Msg("estado de venta actualizado")
	return resp, nil
}

func (c *Coordinator) settlePayment(ctx context.Context, repos ports.Repositories, s *entity.Sale, to string) error {
	if !sale.CanSettlePayment(s.Status, to) {
		return domain.InvalidTransition(s.ID, paymentState(s.Status), to)
	}
	s.Status = entity.SaleStatusCompleted

	lines, err := repos.Lines.ListBySale(ctx, s.ID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.PaymentStatus != entity.LinePaymentPending {
			continue
		}
		l.PaymentStatus = entity.LinePaymentPaid
		if err := repos.Lines.Update(ctx, l); err != nil {
			return err
		}
	}

	doc, err := repos.Documents.GetBySale(ctx, s.ID)
	if err != nil {
		return err
	}
	if doc != nil && doc.Status != entity.DocumentStatusPaid {
		if err := repos.Documents.UpdateStatus(ctx, doc.ID, entity.DocumentStatusPaid); err != nil {
			return err
		}
	}
	return nil
}

// paymentState proyección del ciclo de vida sobre el eje de pago.
func paymentState(saleStatus string) string {
	if saleStatus == entity.SaleStatusPending {
		return sale.PaymentPending
	}
	return saleStatus
}
