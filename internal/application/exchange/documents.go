package exchange

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// SharedBaseID carpeta de los archivos subidos sin token ${...} en el nombre.
const SharedBaseID = "shared"

// DocumentTypeFor deduce el tipo de documento a partir del nombre del archivo.
// Solo .xml (CommerceML) y .xlsx (tabular) generan jobs; el resto son recursos (imágenes).
func DocumentTypeFor(filename string) (entity.DocumentType, bool) {
	name := strings.ToLower(path.Base(filepath.ToSlash(filename)))
	switch strings.ToLower(path.Ext(name)) {
	case ".xml":
		switch {
		case strings.Contains(name, "import"):
			return entity.DocCatalogImport, true
		case strings.Contains(name, "offers"):
			return entity.DocOffersImport, true
		}
	case ".xlsx":
		switch {
		case strings.Contains(name, "products"):
			return entity.DocTabularProducts, true
		case strings.Contains(name, "prices"):
			return entity.DocTabularPrices, true
		case strings.Contains(name, "balance"):
			return entity.DocTabularBalances, true
		}
	}
	return "", false
}

// BaseID devuelve el contenido del primer token ${...} del nombre, o SharedBaseID.
func BaseID(filename string) string {
	start := strings.Index(filename, "${")
	if start < 0 {
		return SharedBaseID
	}
	end := strings.Index(filename[start+2:], "}")
	if end <= 0 {
		return SharedBaseID
	}
	return filename[start+2 : start+2+end]
}

// CleanFilename valida un nombre relativo recibido del ERP: sin rutas absolutas ni "..".
func CleanFilename(filename string) (string, error) {
	name := filepath.ToSlash(strings.TrimSpace(filename))
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(filename) || filepath.VolumeName(filename) != "" {
		return "", domain.ErrInvalidFilename
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", domain.ErrInvalidFilename
		}
	}
	return path.Clean(name), nil
}

// Staging organización en disco de los archivos subidos: {root}/{companyId}/{baseId}/{filename}.
type Staging struct {
	Root string
}

// Path calcula la ruta de staging de un archivo subido.
func (s Staging) Path(companyID, filename string) (string, error) {
	name, err := CleanFilename(filename)
	if err != nil {
		return "", err
	}
	base := BaseID(name)
	if base == "." || base == ".." || strings.ContainsAny(base, `/\`) {
		return "", domain.ErrInvalidFilename
	}
	if companyID == "" || strings.ContainsAny(companyID, `/\`) || companyID == ".." {
		return "", fmt.Errorf("company %q: %w", companyID, domain.ErrInvalidInput)
	}
	return filepath.Join(s.Root, companyID, base, filepath.FromSlash(name)), nil
}

// JobDir carpeta del lote al que pertenece el archivo del job.
func (s Staging) JobDir(job *entity.ExchangeJob) string {
	companyDir := filepath.Join(s.Root, job.CompanyID)
	rel, err := filepath.Rel(companyDir, job.Path)
	if err != nil {
		return filepath.Dir(job.Path)
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return filepath.Join(companyDir, first)
}

// SharedDir carpeta compartida de la empresa.
func (s Staging) SharedDir(companyID string) string {
	return filepath.Join(s.Root, companyID, SharedBaseID)
}

// ResolveAsset busca un recurso referenciado por un documento: primero en la carpeta del job,
// después en la carpeta compartida de la empresa.
func (s Staging) ResolveAsset(job *entity.ExchangeJob, ref string) (string, error) {
	name, err := CleanFilename(ref)
	if err != nil {
		return "", err
	}
	for _, dir := range []string{s.JobDir(job), s.SharedDir(job.CompanyID)} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s: %w", ref, os.ErrNotExist)
}

// JobFile archivo de staging propio del job una vez reclamado. Una subida posterior con el
// mismo nombre escribe en Path sin tocar el archivo que el job está leyendo.
func JobFile(job *entity.ExchangeJob) string {
	return job.Path + "." + job.ID
}

// Seal aparta el archivo subido como archivo propio del job.
func (s Staging) Seal(job *entity.ExchangeJob) error {
	return os.Rename(job.Path, JobFile(job))
}

// Unseal devuelve el archivo del job a su ruta de subida. Falla con os.ErrExist si entretanto
// llegó una subida nueva.
func (s Staging) Unseal(job *entity.ExchangeJob) error {
	if _, err := os.Stat(job.Path); err == nil {
		return fmt.Errorf("%s: %w", job.Path, os.ErrExist)
	}
	return os.Rename(JobFile(job), job.Path)
}
