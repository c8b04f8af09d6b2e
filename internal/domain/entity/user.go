package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, manager, viewer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdminOf indica si el usuario administra la empresa dada.
func (u *User) IsAdminOf(companyID string) bool {
	return u != nil && u.CompanyID == companyID && u.Role == RoleAdmin
}
