package entity

import "time"

// Company representa una organización/tenant del marketplace.
// Todo producto, almacén y tipo de precio importado pertenece a exactamente una Company.
type Company struct {
	ID        string
	Name      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
