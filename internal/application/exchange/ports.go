// Package exchange implementa el intercambio de catálogo con el ERP: protocolo de subida,
// libro de jobs, cola por empresa y el procesamiento de los documentos subidos.
package exchange

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/domain/document"
)

// ErrQueueEmpty Pop no recibió ningún job antes del timeout.
var ErrQueueEmpty = errors.New("exchange: cola vacía")

// Broker cola FIFO durable de ids de job, una por empresa.
type Broker interface {
	Push(ctx context.Context, queue, jobID string) error
	// Pop bloquea hasta timeout; sin elementos devuelve ErrQueueEmpty.
	Pop(ctx context.Context, queue string, timeout time.Duration) (string, error)
}

// AssetStore almacén de objetos de las imágenes de producto.
type AssetStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// DocumentDecoder decodifica los documentos CommerceML.
type DocumentDecoder interface {
	DecodeCatalog(r io.Reader) (*document.Catalog, error)
	DecodeOffers(r io.Reader) (*document.Offers, error)
}

// TabularDecoder decodifica los documentos tabulares.
type TabularDecoder interface {
	DecodeProducts(r io.Reader) (*document.Catalog, error)
	DecodePrices(r io.Reader) (*document.Offers, error)
	DecodeBalances(r io.Reader) (*document.Offers, error)
}

// Authenticator colaborador de login: credenciales a token de sesión.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
}
