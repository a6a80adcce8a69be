package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin = "admin" // gestiona usuarios, materiales y productos
	RoleStaff = "staff" // registra ventas y entradas
)

// User usuario con acceso a la API.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
