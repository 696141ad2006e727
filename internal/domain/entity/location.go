package entity

import "time"

// Location bodega o punto de venta de una tienda donde se almacena inventario.
type Location struct {
	ID        string
	ShopID    string
	Name      string
	IsDefault bool
	CreatedAt time.Time
}
