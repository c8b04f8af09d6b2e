package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Intercambio con el ERP.
	ErrJobNotFound      = errors.New("job not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrUnknownStock     = errors.New("stock is not declared in the offer package")
	ErrUnknownPriceType = errors.New("price type is not declared in the offer package")
	ErrInvalidDocument  = errors.New("invalid exchange document")
	ErrInvalidFilename  = errors.New("invalid filename")
)
