package entity

import "time"

// LogStatus resultado de una entidad procesada.
type LogStatus string

const (
	LogSuccess LogStatus = "SUCCESS"
	LogError   LogStatus = "ERROR"
)

// ExchangeLog entrada del log de intercambio (solo inserción).
type ExchangeLog struct {
	ID        string
	JobID     string
	Status    LogStatus
	Message   string
	CreatedAt time.Time
}
