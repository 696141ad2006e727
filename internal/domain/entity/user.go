package entity

// Roles válidos para los actores del sistema.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleCajero    = "cajero"
)
