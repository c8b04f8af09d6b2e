package dto

import (
	"path/filepath"
	"time"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// ExchangeJobResponse salida de un job de intercambio.
type ExchangeJobResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Filename  string    `json:"filename"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Locale    string    `json:"locale,omitempty"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExchangeJobListResponse listado paginado de jobs.
type ExchangeJobListResponse struct {
	Items []ExchangeJobResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ExchangeLogResponse entrada del log de un job.
type ExchangeLogResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ExchangeLogListResponse listado paginado del log.
type ExchangeLogListResponse struct {
	Items []ExchangeLogResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ToExchangeJobResponse mapea la entidad; la ruta de staging no se expone, solo el nombre.
func ToExchangeJobResponse(j *entity.ExchangeJob) ExchangeJobResponse {
	errs := j.Errors
	if errs == nil {
		errs = []string{}
	}
	return ExchangeJobResponse{
		ID:        j.ID,
		CompanyID: j.CompanyID,
		Filename:  filepath.Base(j.Path),
		Type:      string(j.Type),
		Status:    string(j.Status),
		Locale:    j.Locale,
		Errors:    errs,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ToExchangeLogResponse mapea una entrada del log.
func ToExchangeLogResponse(e *entity.ExchangeLog) ExchangeLogResponse {
	return ExchangeLogResponse{
		ID:        e.ID,
		Status:    string(e.Status),
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}
