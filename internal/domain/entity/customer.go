package entity

import "time"

// Customer cliente de la tienda (directorio externo; usado para formatear documentos).
type Customer struct {
	ID        string
	ShopID    string
	Name      string
	Phone     string
	CreatedAt time.Time
}
