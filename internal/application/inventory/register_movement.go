package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/sale"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// RegisterMovementUseCase registra movimientos manuales de inventario (IN, OUT, ADJUSTMENT,
// TRANSFER) dentro de una transacción. Todas las mutaciones pasan por el Ledger, así que cada
// una deja su movimiento y ajusta el catálogo.
type RegisterMovementUseCase struct {
	txRunner   ports.TxRunner
	reads      ports.Repositories
	registry   ports.Registry
	ledger     *Ledger
	authorizer ports.Authorizer
	log        *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. reads son repositorios fuera de
// transacción usados para validar antes de abrirla.
func NewRegisterMovementUseCase(
	txRunner ports.TxRunner,
	reads ports.Repositories,
	registry ports.Registry,
	ledger *Ledger,
	authorizer ports.Authorizer,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:   txRunner,
		reads:      reads,
		registry:   registry,
		ledger:     ledger,
		authorizer: authorizer,
		log:        log.Named("inventory"),
	}
}

// RegisterMovement valida el request, comprueba que producto y ubicaciones sean de la tienda
// del actor y aplica el movimiento en una sola transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor ports.Actor, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	if err := uc.authorizer.Authorize(ctx, actor, ports.OpInventoryMove, actor.ShopID); err != nil {
		return nil, err
	}

	product, err := uc.reads.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ProductNotFound(in.ProductID)
	}
	if product.ShopID != actor.ShopID {
		return nil, domain.ErrForbidden
	}

	locations := []string{in.LocationID}
	if in.Type == dto.MovementTypeTRANSFER {
		locations = []string{in.FromLocationID, in.ToLocationID}
	}
	for _, id := range locations {
		loc, err := uc.registry.Locations.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if loc == nil || loc.ShopID != actor.ShopID {
			return nil, domain.ErrNotFound
		}
	}

	txID := uuid.New().String()
	base := LedgerInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		Reference:  txID,
		ActorID:    actor.UserID,
	}

	resp := &dto.RegisterMovementResponse{TransactionID: txID}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var items []*entity.InventoryItem
		switch in.Type {
		case dto.MovementTypeIN:
			base.Reason = reasonOr(in.Reason, entity.ReasonReceipt)
			item, err := uc.ledger.Receive(ctx, repos, base, *in.UnitCost)
			if err != nil {
				return err
			}
			items = append(items, item)
		case dto.MovementTypeOUT:
			base.Reason = reasonOr(in.Reason, entity.ReasonAdjustment)
			item, err := uc.ledger.Reserve(ctx, repos, base)
			if err != nil {
				return err
			}
			items = append(items, item)
		case dto.MovementTypeADJUSTMENT:
			base.Reason = reasonOr(in.Reason, entity.ReasonAdjustment)
			item, err := uc.adjust(ctx, repos, base, product.PurchasePrice, in.UnitCost)
			if err != nil {
				return err
			}
			items = append(items, item)
		case dto.MovementTypeTRANSFER:
			base.Reason = reasonOr(in.Reason, entity.ReasonTransfer)
			base.LocationID = in.FromLocationID
			origin, dest, err := uc.ledger.Transfer(ctx, repos, base, in.ToLocationID)
			if err != nil {
				return err
			}
			items = append(items, origin, dest)
		default:
			return domain.ErrInvalidInput
		}

		updated, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if updated != nil {
			resp.ProductQuantity = updated.Quantity
		}
		for _, it := range items {
			resp.Items = append(resp.Items, dto.NewInventoryItemResponse(it))
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("shop_id", actor.ShopID).
			Str("product_id", in.ProductID).
			Str("type", in.Type).
			Msg("movimiento de inventario rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("shop_id", actor.ShopID).
		Str("product_id", in.ProductID).
		Str("type", in.Type).
		Int64("quantity", in.Quantity).
		Str("transaction_id", txID).
		Msg("movimiento de inventario registrado")
	return resp, nil
}

// adjust: positivo como entrada (al costo indicado o al costo actual), negativo como salida.
func (uc *RegisterMovementUseCase) adjust(ctx context.Context, repos ports.Repositories, in LedgerInput, currentCost decimal.Decimal, unitCost *decimal.Decimal) (*entity.InventoryItem, error) {
	if in.Quantity > 0 {
		cost := currentCost
		if unitCost != nil {
			cost = *unitCost
		}
		return uc.ledger.Receive(ctx, repos, in, cost)
	}
	in.Quantity = -in.Quantity
	return uc.ledger.Reserve(ctx, repos, in)
}

// ListMovements devuelve el historial de movimientos de una entrada del ledger.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, actor ports.Actor, itemID string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	if err := uc.authorizer.Authorize(ctx, actor, ports.OpInventoryRead, actor.ShopID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	item, err := uc.reads.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.reads.Products.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.ShopID != actor.ShopID {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.reads.Movements.ListByItem(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.StockMovementListResponse{
		Items: make([]dto.StockMovementResponse, 0, len(movements)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range movements {
		out.Items = append(out.Items, dto.NewStockMovementResponse(m))
	}
	return out, nil
}

func validateMovement(in dto.RegisterMovementRequest) error {
	if in.ProductID == "" || in.Quantity == 0 {
		return domain.ErrInvalidInput
	}
	if in.UnitCost != nil {
		if err := sale.CheckMoney("costo unitario", *in.UnitCost); err != nil {
			return err
		}
	}
	switch in.Type {
	case dto.MovementTypeIN:
		if in.LocationID == "" || in.Quantity < 0 || in.UnitCost == nil || in.UnitCost.IsNegative() {
			return domain.ErrInvalidInput
		}
	case dto.MovementTypeOUT:
		if in.LocationID == "" || in.Quantity < 0 {
			return domain.ErrInvalidInput
		}
	case dto.MovementTypeADJUSTMENT:
		if in.LocationID == "" || (in.UnitCost != nil && in.UnitCost.IsNegative()) {
			return domain.ErrInvalidInput
		}
	case dto.MovementTypeTRANSFER:
		if in.FromLocationID == "" || in.ToLocationID == "" || in.FromLocationID == in.ToLocationID || in.Quantity < 0 {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
