package dto

import "github.com/jhoicas/tienda-core/internal/domain/entity"

// NewSaleResponse arma la respuesta de una venta con sus líneas, documento y devoluciones.
func NewSaleResponse(s *entity.Sale, lines []*entity.OrderLine, doc *entity.SettlementDocument, returns []*entity.Return) *SaleResponse {
	out := &SaleResponse{
		ID:             s.ID,
		ShopID:         s.ShopID,
		CustomerID:     s.CustomerID,
		Status:         s.Status,
		DeliveryStatus: s.DeliveryStatus,
		PaymentMethod:  s.PaymentMethod,
		NetAmount:      s.NetAmount,
		Discount:       s.Discount,
		DeliveryFee:    s.DeliveryFee,
		AmountPaid:     s.AmountPaid,
		ChangeGiven:    s.ChangeGiven,
		Profit:         s.Profit,
		SalesPersonID:  s.SalesPersonID,
		ReceiptID:      s.ReceiptID,
		InvoiceID:      s.InvoiceID,
		Lines:          make([]OrderLineResponse, 0, len(lines)),
		Returns:        make([]ReturnResponse, 0, len(returns)),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, OrderLineResponse{
			ID:            l.ID,
			ProductID:     l.ProductID,
			LocationID:    l.LocationID,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Subtotal:      l.Subtotal(),
			PaymentStatus: l.PaymentStatus,
		})
	}
	if doc != nil {
		out.Document = &DocumentResponse{
			ID:            doc.ID,
			Kind:          doc.Kind,
			Number:        doc.Number,
			Status:        doc.Status,
			Amount:        doc.Amount,
			CustomerName:  doc.CustomerName,
			CustomerPhone: doc.CustomerPhone,
		}
	}
	for _, r := range returns {
		out.Returns = append(out.Returns, *NewReturnResponse(r))
	}
	return out
}

// NewReturnResponse mapea una devolución.
func NewReturnResponse(r *entity.Return) *ReturnResponse {
	return &ReturnResponse{
		ID:          r.ID,
		SaleID:      r.SaleID,
		OrderLineID: r.OrderLineID,
		Quantity:    r.Quantity,
		Reason:      r.Reason,
		Description: r.Description,
		Amount:      r.Amount,
		Status:      r.Status,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// NewInventoryItemResponse mapea una entrada del ledger.
func NewInventoryItemResponse(i *entity.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:           i.ID,
		ProductID:    i.ProductID,
		LocationID:   i.LocationID,
		QuantityLeft: i.QuantityLeft,
		ReorderPoint: i.ReorderPoint,
		UnitCost:     i.UnitCost,
		Status:       i.Status,
	}
}

// NewStockMovementResponse mapea un movimiento.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:              m.ID,
		InventoryItemID: m.InventoryItemID,
		ProductID:       m.ProductID,
		LocationID:      m.LocationID,
		Direction:       m.Direction,
		Quantity:        m.Quantity,
		CostPerUnit:     m.CostPerUnit,
		TotalCost:       m.TotalCost,
		Reason:          m.Reason,
		Reference:       m.Reference,
		PerformedBy:     m.PerformedBy,
		CreatedAt:       m.CreatedAt,
	}
}
