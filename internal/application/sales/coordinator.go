// Package sales orquesta la creación de ventas y sus cambios de estado como unidades atómicas
// sobre el ledger, la caché de catálogo, los ingresos y el documento de liquidación.
package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
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

// DefaultIncomeCategory categoría contable del ingreso de una venta.
const DefaultIncomeCategory = "sales"

// DefaultPhoneRegion región usada para interpretar teléfonos sin indicativo.
const DefaultPhoneRegion = "CO"

// Coordinator coordinador transaccional de ventas.
type Coordinator struct {
	txRunner       ports.TxRunner
	reads          ports.Repositories
	registry       ports.Registry
	ledger         *inventory.Ledger
	authorizer     ports.Authorizer
	incomeCategory string
	phoneRegion    string
	log            *logger.Logger
	metrics        ports.Metrics
	tracer         trace.Tracer
	now            func() time.Time
}

// Option configura el Coordinator.
type Option func(*Coordinator)

// WithLogger usa log para los resultados de commit/abort.
func WithLogger(log *logger.Logger) Option {
	return func(c *Coordinator) { c.log = log.Named("sales") }
}

// WithMetrics registra duración y resultado de cada operación.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithIncomeCategory categoría con la que se busca el código contable del ingreso.
func WithIncomeCategory(category string) Option {
	return func(c *Coordinator) {
		if category != "" {
			c.incomeCategory = category
		}
	}
}

// WithPhoneRegion región (ISO 3166) para teléfonos de clientes sin indicativo.
func WithPhoneRegion(region string) Option {
	return func(c *Coordinator) {
		if region != "" {
			c.phoneRegion = region
		}
	}
}

// WithClock reloj para CreatedAt/UpdatedAt y numeración de documentos.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator construye el coordinador. reads son repositorios fuera de transacción para
// las validaciones previas y las lecturas.
func NewCoordinator(
	txRunner ports.TxRunner,
	reads ports.Repositories,
	registry ports.Registry,
	ledger *inventory.Ledger,
	authorizer ports.Authorizer,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		txRunner:       txRunner,
		reads:          reads,
		registry:       registry,
		ledger:         ledger,
		authorizer:     authorizer,
		incomeCategory: DefaultIncomeCategory,
		phoneRegion:    DefaultPhoneRegion,
		log:            logger.Nop(),
		metrics:        ports.NopMetrics{},
		tracer:         otel.Tracer("github.com/jhoicas/tienda-core/internal/application/sales"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// plannedLine línea validada antes de abrir la transacción.
type plannedLine struct {
	productID     *string
	locationID    *string
	name          string
	quantity      int64
	unitPrice     decimal.Decimal
	purchasePrice *decimal.Decimal
}

// CreateSale registra la venta completa en una sola transacción: venta, líneas, reservas de
// stock (con su movimiento y ajuste de catálogo), ingreso y documento de liquidación.
// Si cualquier paso falla no queda nada escrito.
func (c *Coordinator) CreateSale(ctx context.Context, actor ports.Actor, in dto.CreateSaleRequest) (resp *dto.SaleResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "sales.CreateSale", trace.WithAttributes(
		attribute.String("shop.id", actor.ShopID),
		attribute.Int("sale.lines", len(in.Lines)),
	))
	start := c.now()
	defer func() { c.finish(span, "create_sale", start, err) }()

	if err := c.authorizer.Authorize(ctx, actor, ports.OpSaleCreate, actor.ShopID); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 || strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.AmountTendered.IsNegative() {
		return nil, domain.InvalidAmount("monto entregado negativo")
	}
	if err := sale.CheckMoney("monto entregado", in.AmountTendered); err != nil {
		return nil, err
	}

	customerID := in.CustomerID
	if customerID != nil && strings.TrimSpace(*customerID) == "" {
		customerID = nil
	}
	customerName, customerPhone, err := c.customerSnapshot(ctx, actor.ShopID, customerID)
	if err != nil {
		return nil, err
	}
	lines, err := c.planLines(ctx, actor.ShopID, in.Lines)
	if err != nil {
		return nil, err
	}

	amounts := make([]sale.LineAmount, len(lines))
	for i, l := range lines {
		amounts[i] = sale.LineAmount{Quantity: l.quantity, UnitPrice: l.unitPrice, PurchasePrice: l.purchasePrice}
	}
	totals, err := sale.ComputeTotals(amounts, in.Discount, in.DeliveryFee)
	if err != nil {
		return nil, err
	}
	settlement := sale.SelectDocument(totals.Net, in.AmountTendered)
	accountCode := c.accountCode(ctx)

	salesPerson := in.SalesPersonID
	if salesPerson == "" {
		salesPerson = actor.UserID
	}
	now := c.now()
	s := &entity.Sale{
		ID:             uuid.New().String(),
		ShopID:         actor.ShopID,
		CustomerID:     customerID,
		Status:         settlement.SaleStatus(),
		DeliveryStatus: entity.DeliveryStatusPending,
		PaymentMethod:  in.PaymentMethod,
		NetAmount:      totals.Net,
		Discount:       in.Discount,
		DeliveryFee:    in.DeliveryFee,
		AmountPaid:     settlement.AmountPaid,
		ChangeGiven:    settlement.ChangeGiven,
		Profit:         totals.Profit,
		SalesPersonID:  salesPerson,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = c.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}

		// Reservas en orden (producto, ubicación) para que transacciones concurrentes tomen
		// los bloqueos en el mismo orden.
		items := make([]*entity.InventoryItem, len(lines))
		for _, i := range reservationOrder(lines) {
			l := lines[i]
			item, err := c.ledger.Reserve(ctx, repos, inventory.LedgerInput{
				ProductID:  *l.productID,
				LocationID: *l.locationID,
				Quantity:   l.quantity,
				Reason:     entity.ReasonSale,
				Reference:  s.ID,
				ActorID:    actor.UserID,
			})
			if err != nil {
				return err
			}
			items[i] = item
		}

		created := make([]*entity.OrderLine, 0, len(lines))
		for i, l := range lines {
			ol := &entity.OrderLine{
				ID:            uuid.New().String(),
				SaleID:        s.ID,
				ProductID:     l.productID,
				LocationID:    l.locationID,
				ProductName:   l.name,
				Quantity:      l.quantity,
				UnitPrice:     l.unitPrice,
				PaymentStatus: settlement.LinePaymentStatus(),
			}
			if l.purchasePrice != nil {
				ol.UnitCost = *l.purchasePrice
			}
			if items[i] != nil {
				itemID := items[i].ID
				ol.InventoryItemID = &itemID
			}
			if err := repos.Lines.Create(ctx, ol); err != nil {
				return err
			}
			created = append(created, ol)
		}

		if err := repos.Incomes.Create(ctx, &entity.Income{
			ID:          uuid.New().String(),
			SaleID:      s.ID,
			ShopID:      s.ShopID,
			Amount:      s.NetAmount,
			Category:    c.incomeCategory,
			AccountCode: accountCode,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		doc := &entity.SettlementDocument{
			ID:            uuid.New().String(),
			SaleID:        s.ID,
			Kind:          settlement.Kind,
			Status:        settlement.DocumentStatus(),
			Amount:        s.NetAmount,
			CustomerName:  customerName,
			CustomerPhone: customerPhone,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		doc.Number = documentNumber(settlement.DocumentPrefix(), now, doc.ID)
		if err := repos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		docID := doc.ID
		if settlement.Settled() {
			s.ReceiptID = &docID
		} else {
			s.InvoiceID = &docID
		}
		if err := repos.Sales.Update(ctx, s); err != nil {
			return err
		}

		resp = dto.NewSaleResponse(s, created, doc, nil)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).
			Str("shop_id", actor.ShopID).
			Str("entity_id", domain.EntityID(err)).
			Msg("venta abortada")
		return nil, err
	}
	c.log.Info().
		Str("shop_id", actor.ShopID).
		Str("sale_id", s.ID).
		Str("net_amount", s.NetAmount.String()).
		Str("document", settlement.Kind).
		Msg("venta confirmada")
	return resp, nil
}

// planLines resuelve producto, precio y ubicación de cada línea fuera de la transacción.
func (c *Coordinator) planLines(ctx context.Context, shopID string, in []dto.SaleLineRequest) ([]plannedLine, error) {
	var defaultLocation *string
	out := make([]plannedLine, 0, len(in))
	for _, l := range in {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		pl := plannedLine{name: strings.TrimSpace(l.Name), quantity: l.Quantity}
		if l.UnitPrice != nil {
			pl.unitPrice = *l.UnitPrice
		}
		if l.ProductID == nil || *l.ProductID == "" {
			if pl.name == "" || l.UnitPrice == nil {
				return nil, domain.ErrInvalidInput
			}
			out = append(out, pl)
			continue
		}

		product, err := c.reads.Products.GetByID(ctx, *l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.ShopID != shopID {
			return nil, domain.ProductNotFound(*l.ProductID)
		}
		productID := product.ID
		pl.productID = &productID
		if pl.name == "" {
			pl.name = product.Name
		}
		if l.UnitPrice == nil {
			pl.unitPrice = product.SellingPrice
		}
		purchase := product.PurchasePrice
		pl.purchasePrice = &purchase

		switch {
		case l.LocationID != nil && *l.LocationID != "":
			loc, err := c.registry.Locations.GetByID(ctx, *l.LocationID)
			if err != nil {
				return nil, err
			}
			if loc == nil || loc.ShopID != shopID {
				return nil, fmt.Errorf("ubicación %s: %w", *l.LocationID, domain.ErrNotFound)
			}
			locationID := loc.ID
			pl.locationID = &locationID
		default:
			if defaultLocation == nil {
				loc, err := c.registry.Locations.GetDefault(ctx, shopID)
				if err != nil {
					return nil, err
				}
				if loc == nil {
					return nil, fmt.Errorf("ubicación por defecto: %w", domain.ErrNotFound)
				}
				id := loc.ID
				defaultLocation = &id
			}
			locationID := *defaultLocation
			pl.locationID = &locationID
		}
		out = append(out, pl)
	}
	return out, nil
}

func (c *Coordinator) customerSnapshot(ctx context.Context, shopID string, customerID *string) (name, phone string, err error) {
	if customerID == nil || *customerID == "" {
		return "", "", nil
	}
	cust, err := c.registry.Customers.GetByID(ctx, *customerID)
	if err != nil {
		return "", "", err
	}
	if cust == nil || cust.ShopID != shopID {
		return "", "", fmt.Errorf("cliente %s: %w", *customerID, domain.ErrNotFound)
	}
	return cust.Name, normalizePhone(cust.Phone, c.phoneRegion), nil
}

// normalizePhone teléfono en E.164 para el documento; lo que no se reconoce queda tal cual.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

// accountCode código contable del ingreso; si la tabla no lo tiene se registra vacío.
func (c *Coordinator) accountCode(ctx context.Context) string {
	code, err := c.registry.AccountCodes.GetByCategory(ctx, c.incomeCategory)
	if err != nil || code == nil {
		c.log.Warn().Err(err).Str("category", c.incomeCategory).Msg("categoría sin código contable")
		return ""
	}
	return code.Code
}

// reservationOrder índices de las líneas de catálogo ordenados por (producto, ubicación).
func reservationOrder(lines []plannedLine) []int {
	idx := make([]int, 0, len(lines))
	for i, l := range lines {
		if l.productID != nil {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		la, lb := lines[idx[a]], lines[idx[b]]
		if *la.productID != *lb.productID {
			return *la.productID < *lb.productID
		}
		return *la.locationID < *lb.locationID
	})
	return idx
}

// documentNumber consecutivo legible: REC-20240131-1A2B3C4D.
func documentNumber(prefix string, at time.Time, id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return prefix + "-" + at.Format("20060102") + "-" + short
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
