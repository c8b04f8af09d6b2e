package dto

// Límites de paginación de los listados de la API.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest límite y desplazamiento pedidos por query.
type PageRequest struct {
	Limit  int
	Offset int
}

// NewPageRequest normaliza limit a [1, MaxPageLimit] y offset a un valor no negativo.
// Un limit ausente o no positivo toma DefaultPageLimit.
func NewPageRequest(limit, offset int) PageRequest {
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return PageRequest{Limit: limit, Offset: offset}
}

// Response metadatos de la página servida.
func (p PageRequest) Response(total int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
