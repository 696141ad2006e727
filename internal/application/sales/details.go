package sales

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// GetSaleDetails venta con líneas, documento y devoluciones.
func (c *Coordinator) GetSaleDetails(ctx context.Context, actor ports.Actor, saleID string) (resp *dto.SaleResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "sales.GetSaleDetails", trace.WithAttributes(attribute.String("sale.id", saleID)))
	start := c.now()
	defer func() { c.finish(span, "get_sale_details", start, err) }()

	if err := c.authorizer.Authorize(ctx, actor, ports.OpSaleRead, actor.ShopID); err != nil {
		return nil, err
	}
	s, err := c.reads.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.ShopID != actor.ShopID {
		return nil, domain.ErrNotFound
	}

	// Fuera de transacción las tres lecturas son independientes.
	var (
		lines   []*entity.OrderLine
		doc     *entity.SettlementDocument
		returns []*entity.Return
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = c.reads.Lines.ListBySale(gctx, s.ID)
		return err
	})
	g.Go(func() error {
		var err error
		doc, err = c.reads.Documents.GetBySale(gctx, s.ID)
		return err
	})
	g.Go(func() error {
		var err error
		returns, err = c.reads.Returns.ListBySale(gctx, s.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dto.NewSaleResponse(s, lines, doc, returns), nil
}

// loadDetails lectura secuencial dentro de una transacción (una conexión no admite
// consultas concurrentes).
func loadDetails(ctx context.Context, repos ports.Repositories, s *entity.Sale) (*dto.SaleResponse, error) {
	lines, err := repos.Lines.ListBySale(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	doc, err := repos.Documents.GetBySale(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	returns, err := repos.Returns.ListBySale(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSaleResponse(s, lines, doc, returns), nil
}
