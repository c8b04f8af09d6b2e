package entity

import "time"

// JobStatus estado de un ExchangeJob: INACTIVE -> PENDING -> {SUCCESS, ERROR}.
type JobStatus string

const (
	JobInactive JobStatus = "INACTIVE" // subido, aún no encolado
	JobPending  JobStatus = "PENDING"
	JobSuccess  JobStatus = "SUCCESS"
	JobError    JobStatus = "ERROR"
)

// IsTerminal indica si el estado ya no cambia.
func (s JobStatus) IsTerminal() bool {
	return s == JobSuccess || s == JobError
}

// DocumentType tipo de documento subido por el ERP.
type DocumentType string

const (
	DocCatalogImport   DocumentType = "catalog-import"
	DocOffersImport    DocumentType = "offers-import"
	DocTabularProducts DocumentType = "tabular-products"
	DocTabularPrices   DocumentType = "tabular-prices"
	DocTabularBalances DocumentType = "tabular-balances"
)

// IsTabular indica si el documento es una hoja de cálculo.
func (t DocumentType) IsTabular() bool {
	return t == DocTabularProducts || t == DocTabularPrices || t == DocTabularBalances
}

// ExchangeJob registro de un archivo subido y de lo que ocurrió con él.
// Nunca se borra; su archivo en staging sí.
type ExchangeJob struct {
	ID        string
	CompanyID string
	Path      string
	Type      DocumentType
	Status    JobStatus
	Locale    string
	Errors    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
