package exchange

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

// AssetSynchronizer mantiene el conjunto de imágenes CommerceML de cada producto.
type AssetSynchronizer struct {
	images  repository.ProductImageRepository
	store   AssetStore
	staging Staging
	journal *Journal
	log     zerolog.Logger
	now     func() time.Time
}

// NewAssetSynchronizer crea el sincronizador.
func NewAssetSynchronizer(images repository.ProductImageRepository, store AssetStore, staging Staging, journal *Journal, log zerolog.Logger) *AssetSynchronizer {
	return &AssetSynchronizer{
		images:  images,
		store:   store,
		staging: staging,
		journal: journal,
		log:     log,
		now:     time.Now,
	}
}

// Sync reemplaza las imágenes CommerceML del producto por refs. Solo actúa si el documento trae
// solo cambios o si el producto aún no tiene imágenes CommerceML; nunca para variantes.
// Un archivo que no se puede subir se registra y se omite.
func (a *AssetSynchronizer) Sync(ctx context.Context, job *entity.ExchangeJob, product *entity.Product, refs []string, onlyChanges bool) error {
	if product.IsVariant() {
		return nil
	}
	existing, err := a.images.ListCommerceML(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("listar imágenes: %w", err)
	}
	if !onlyChanges && len(existing) > 0 {
		return nil
	}

	for _, img := range existing {
		if err := a.store.Delete(ctx, img.ID); err != nil {
			a.log.Warn().Err(err).Str("key", img.ID).Str("product_id", product.ID).Msg("no se pudo borrar el objeto")
		}
		if err := a.images.Delete(ctx, img.ID); err != nil {
			return fmt.Errorf("borrar imagen %s: %w", img.ID, err)
		}
	}

	for _, ref := range refs {
		if err := a.upload(ctx, job, product, ref); err != nil {
			a.journal.Failure(ctx, job, MsgImageFailed, productRef(product), ref, err.Error())
		}
	}
	return nil
}

func (a *AssetSynchronizer) upload(ctx context.Context, job *entity.ExchangeJob, product *entity.Product, ref string) error {
	src, err := a.staging.ResolveAsset(job, ref)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(src))
	key := path.Join("products", product.ID, uuid.New().String()+ext)
	if err := a.store.Upload(ctx, key, f, st.Size(), mime.TypeByExtension(ext)); err != nil {
		return err
	}
	if err := a.images.Create(ctx, &entity.ProductImage{
		ID:         key,
		ProductID:  product.ID,
		URL:        a.store.URL(key),
		CommerceML: true,
		CreatedAt:  a.now(),
	}); err != nil {
		// El objeto queda huérfano si la fila no se guarda.
		_ = a.store.Delete(ctx, key)
		return err
	}
	return nil
}

func productRef(p *entity.Product) string {
	if p.ExternalID != "" {
		return p.ExternalID
	}
	return p.ID
}
