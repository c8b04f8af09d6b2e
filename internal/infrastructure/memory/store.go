// Package memory implementa los puertos de persistencia en memoria. Reproduce las restricciones
// únicas del esquema (external_id por empresa, claves compuestas) para que el merge se pruebe
// con la misma semántica de upsert que PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

var (
	_ repository.CompanyRepository      = (*Store)(nil)
	_ repository.UserRepository         = (*Users)(nil)
	_ repository.ExchangeJobRepository  = (*Jobs)(nil)
	_ repository.ExchangeLogRepository  = (*Store)(nil)
	_ repository.ProductRepository      = (*Products)(nil)
	_ repository.ProductImageRepository = (*Images)(nil)
	_ repository.StockRepository        = (*Stocks)(nil)
	_ repository.PriceTypeRepository    = (*PriceTypes)(nil)
	_ repository.PriceRepository        = (*Prices)(nil)
	_ repository.StockBalanceRepository = (*Balances)(nil)
)

// Store guarda todas las tablas bajo un único mutex.
type Store struct {
	mu sync.Mutex

	companies map[string]*entity.Company
	users     map[string]*entity.User
	jobs      []*entity.ExchangeJob
	logs      []*entity.ExchangeLog

	products   map[string]*entity.Product
	images     map[string]*entity.ProductImage
	stocks     map[string]*entity.Stock
	priceTypes map[string]*entity.PriceType
	prices     map[[2]string]*entity.Price
	balances   map[[2]string]*entity.StockBalance
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies:  map[string]*entity.Company{},
		users:      map[string]*entity.User{},
		products:   map[string]*entity.Product{},
		images:     map[string]*entity.ProductImage{},
		stocks:     map[string]*entity.Stock{},
		priceTypes: map[string]*entity.PriceType{},
		prices:     map[[2]string]*entity.Price{},
		balances:   map[[2]string]*entity.StockBalance{},
	}
}

// AddCompany registra una empresa.
func (s *Store) AddCompany(c entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = &c
}

// AddUser registra un usuario.
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// GetByID implementa CompanyRepository.
func (s *Store) GetByID(_ context.Context, id string) (*entity.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// Users devuelve la vista UserRepository del almacén.
func (s *Store) Users() *Users { return &Users{s: s} }

// Users implementa UserRepository.
type Users struct{ s *Store }

// GetByID obtiene un usuario.
func (u *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if x, ok := u.s.users[id]; ok {
		cp := *x
		return &cp, nil
	}
	return nil, nil
}

// FindByEmail obtiene un usuario por email.
func (u *Users) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, x := range u.s.users {
		if strings.EqualFold(x.Email, email) {
			cp := *x
			return &cp, nil
		}
	}
	return nil, nil
}

// ─── Exchange jobs ──────────────────────────────────────────────────────────

// Jobs implementa ExchangeJobRepository.
type Jobs struct{ s *Store }

// Jobs devuelve la vista del libro de jobs.
func (s *Store) Jobs() *Jobs { return &Jobs{s: s} }

// Create implementa ExchangeJobRepository.
func (r *Jobs) Create(_ context.Context, job *entity.ExchangeJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs = append(r.s.jobs, copyJob(job))
	return nil
}

// GetByID implementa ExchangeJobRepository.
func (r *Jobs) GetByID(_ context.Context, id string) (*entity.ExchangeJob, error) {
	return r.s.Job(id), nil
}

// Job devuelve una copia del job (helper de tests).
func (s *Store) Job(id string) *entity.ExchangeJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return copyJob(j)
		}
	}
	return nil
}

// FindLatestByPath implementa ExchangeJobRepository.
func (r *Jobs) FindLatestByPath(_ context.Context, companyID, path string) (*entity.ExchangeJob, error) {
	return r.latest(func(j *entity.ExchangeJob) bool { return j.CompanyID == companyID && j.Path == path }), nil
}

// FindLatestByFilename implementa ExchangeJobRepository.
func (r *Jobs) FindLatestByFilename(_ context.Context, companyID, filename string) (*entity.ExchangeJob, error) {
	return r.latest(func(j *entity.ExchangeJob) bool {
		return j.CompanyID == companyID && strings.HasSuffix(j.Path, "/"+filename)
	}), nil
}

func (r *Jobs) latest(match func(*entity.ExchangeJob) bool) *entity.ExchangeJob {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.jobs) - 1; i >= 0; i-- {
		if match(r.s.jobs[i]) {
			return copyJob(r.s.jobs[i])
		}
	}
	return nil
}

// CompareAndSetStatus implementa ExchangeJobRepository.
func (r *Jobs) CompareAndSetStatus(_ context.Context, id string, to entity.JobStatus, errs []string, from ...entity.JobStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range r.s.jobs {
		if j.ID != id {
			continue
		}
		for _, f := range from {
			if j.Status == f {
				j.Status = to
				j.Errors = append(j.Errors, errs...)
				j.UpdatedAt = time.Now()
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

// ListByCompany implementa ExchangeJobRepository (más recientes primero).
func (r *Jobs) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.ExchangeJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ExchangeJob
	for i := len(r.s.jobs) - 1; i >= 0; i-- {
		if r.s.jobs[i].CompanyID == companyID {
			out = append(out, copyJob(r.s.jobs[i]))
		}
	}
	return page(out, limit, offset), nil
}

// ListByStatus implementa ExchangeJobRepository.
func (r *Jobs) ListByStatus(_ context.Context, status entity.JobStatus) ([]*entity.ExchangeJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ExchangeJob
	for _, j := range r.s.jobs {
		if j.Status == status {
			out = append(out, copyJob(j))
		}
	}
	return out, nil
}

func copyJob(j *entity.ExchangeJob) *entity.ExchangeJob {
	cp := *j
	cp.Errors = append([]string(nil), j.Errors...)
	return &cp
}

// ─── Exchange log ───────────────────────────────────────────────────────────

// Append implementa ExchangeLogRepository.
func (s *Store) Append(_ context.Context, e *entity.ExchangeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.logs = append(s.logs, &cp)
	return nil
}

// ListByJob implementa ExchangeLogRepository.
func (s *Store) ListByJob(_ context.Context, jobID string, limit, offset int) ([]*entity.ExchangeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.ExchangeLog
	for _, e := range s.logs {
		if e.JobID == jobID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

// Logs devuelve todas las entradas de un job con un estado dado (helper de tests).
func (s *Store) Logs(jobID string, status entity.LogStatus) []*entity.ExchangeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.ExchangeLog
	for _, e := range s.logs {
		if e.JobID == jobID && e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ─── Catálogo ───────────────────────────────────────────────────────────────

// Products implementa ProductRepository sobre el Store.
type Products struct{ s *Store }

// Products devuelve la vista de productos.
func (s *Store) Products() *Products { return &Products{s: s} }

// Create implementa ProductRepository.
func (r *Products) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ExternalID != "" {
		for _, x := range r.s.products {
			if x.CompanyID == p.CompanyID && x.ExternalID == p.ExternalID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// Update implementa ProductRepository.
func (r *Products) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	if p.ExternalID != "" {
		for _, x := range r.s.products {
			if x.ID != p.ID && x.CompanyID == p.CompanyID && x.ExternalID == p.ExternalID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *p
	cp.Deleted = cur.Deleted
	r.s.products[p.ID] = &cp
	return nil
}

// GetByID implementa ProductRepository.
func (r *Products) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return p.ID == id }), nil
}

// FindByExternalID implementa ProductRepository.
func (r *Products) FindByExternalID(_ context.Context, companyID, externalID string) (*entity.Product, error) {
	if externalID == "" {
		return nil, nil
	}
	return r.find(func(p *entity.Product) bool { return p.CompanyID == companyID && p.ExternalID == externalID }), nil
}

// FindByNumber implementa ProductRepository.
func (r *Products) FindByNumber(_ context.Context, companyID, number string) (*entity.Product, error) {
	if number == "" {
		return nil, nil
	}
	return r.find(func(p *entity.Product) bool { return p.CompanyID == companyID && p.Number == number }), nil
}

// FindByERPIdentity implementa ProductRepository.
func (r *Products) FindByERPIdentity(_ context.Context, companyID, productID, characteristicID, number string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool {
		return p.CompanyID == companyID && p.ProductID == productID &&
			p.CharacteristicID == characteristicID && p.Number == number
	}), nil
}

// CountByCompany implementa ProductRepository.
func (r *Products) CountByCompany(_ context.Context, companyID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

// ListByCompany implementa ProductRepository (orden por nombre, sin borrados).
func (r *Products) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID && !p.Deleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return page(out, limit, offset), nil
}

// find devuelve el más antiguo que cumple match, como el ORDER BY created_at del adaptador SQL.
func (r *Products) find(match func(*entity.Product) bool) *entity.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []*entity.Product
	for _, p := range r.s.products {
		if match(p) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.Before(found[j].CreatedAt) })
	cp := *found[0]
	return &cp
}

// Images implementa ProductImageRepository.
type Images struct{ s *Store }

// Images devuelve la vista de imágenes.
func (s *Store) Images() *Images { return &Images{s: s} }

// ListCommerceML implementa ProductImageRepository.
func (r *Images) ListCommerceML(_ context.Context, productID string) ([]*entity.ProductImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductImage
	for _, img := range r.s.images {
		if img.ProductID == productID && img.CommerceML {
			cp := *img
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create implementa ProductImageRepository.
func (r *Images) Create(_ context.Context, img *entity.ProductImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *img
	r.s.images[img.ID] = &cp
	return nil
}

// Delete implementa ProductImageRepository.
func (r *Images) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.images, id)
	return nil
}

// Stocks implementa StockRepository.
type Stocks struct{ s *Store }

// Stocks devuelve la vista de almacenes.
func (s *Store) Stocks() *Stocks { return &Stocks{s: s} }

// Upsert implementa StockRepository.
func (r *Stocks) Upsert(_ context.Context, st *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.stocks {
		if x.CompanyID == st.CompanyID && x.ExternalID == st.ExternalID {
			x.Name = st.Name
			x.UpdatedAt = time.Now()
			st.ID, st.CreatedAt, st.UpdatedAt = x.ID, x.CreatedAt, x.UpdatedAt
			return nil
		}
	}
	st.CreatedAt, st.UpdatedAt = time.Now(), time.Now()
	cp := *st
	r.s.stocks[st.ID] = &cp
	return nil
}

// FindByExternalID implementa StockRepository.
func (r *Stocks) FindByExternalID(_ context.Context, companyID, externalID string) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.stocks {
		if x.CompanyID == companyID && x.ExternalID == externalID {
			cp := *x
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByCompany implementa StockRepository.
func (r *Stocks) ListByCompany(_ context.Context, companyID string) ([]*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Stock
	for _, x := range r.s.stocks {
		if x.CompanyID == companyID {
			cp := *x
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PriceTypes implementa PriceTypeRepository.
type PriceTypes struct{ s *Store }

// PriceTypes devuelve la vista de tipos de precio.
func (s *Store) PriceTypes() *PriceTypes { return &PriceTypes{s: s} }

// Upsert implementa PriceTypeRepository.
func (r *PriceTypes) Upsert(_ context.Context, pt *entity.PriceType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.priceTypes {
		if x.CompanyID == pt.CompanyID && x.ExternalID == pt.ExternalID {
			x.Name, x.Currency = pt.Name, pt.Currency
			x.UpdatedAt = time.Now()
			pt.ID, pt.CreatedAt, pt.UpdatedAt = x.ID, x.CreatedAt, x.UpdatedAt
			return nil
		}
	}
	pt.CreatedAt, pt.UpdatedAt = time.Now(), time.Now()
	cp := *pt
	r.s.priceTypes[pt.ID] = &cp
	return nil
}

// FindByExternalID implementa PriceTypeRepository.
func (r *PriceTypes) FindByExternalID(_ context.Context, companyID, externalID string) (*entity.PriceType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.priceTypes {
		if x.CompanyID == companyID && x.ExternalID == externalID {
			cp := *x
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByCompany implementa PriceTypeRepository.
func (r *PriceTypes) ListByCompany(_ context.Context, companyID string) ([]*entity.PriceType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PriceType
	for _, x := range r.s.priceTypes {
		if x.CompanyID == companyID {
			cp := *x
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Prices implementa PriceRepository.
type Prices struct{ s *Store }

// Prices devuelve la vista de precios.
func (s *Store) Prices() *Prices { return &Prices{s: s} }

// Upsert implementa PriceRepository.
func (r *Prices) Upsert(_ context.Context, p *entity.Price) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.prices[[2]string{p.PriceTypeID, p.ProductID}] = &cp
	return nil
}

// ListByProduct implementa PriceRepository.
func (r *Prices) ListByProduct(_ context.Context, productID string) ([]*entity.Price, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Price
	for k, p := range r.s.prices {
		if k[1] == productID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceTypeID < out[j].PriceTypeID })
	return out, nil
}

// Balances implementa StockBalanceRepository.
type Balances struct{ s *Store }

// Balances devuelve la vista de existencias.
func (s *Store) Balances() *Balances { return &Balances{s: s} }

// Upsert implementa StockBalanceRepository.
func (r *Balances) Upsert(_ context.Context, b *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	r.s.balances[[2]string{b.StockID, b.ProductID}] = &cp
	return nil
}

// ListByProduct implementa StockBalanceRepository.
func (r *Balances) ListByProduct(_ context.Context, productID string) ([]*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockBalance
	for k, b := range r.s.balances {
		if k[1] == productID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out, nil
}

// Catalog agrupa las vistas del catálogo para el MergeService.
func (s *Store) Catalog() catalog.Repositories {
	return catalog.Repositories{
		Products:   s.Products(),
		Images:     s.Images(),
		Stocks:     s.Stocks(),
		PriceTypes: s.PriceTypes(),
		Prices:     s.Prices(),
		Balances:   s.Balances(),
	}
}

// ─── Helpers de inspección ──────────────────────────────────────────────────

// Counts número de filas por tabla del catálogo.
type Counts struct {
	Products, Images, Stocks, PriceTypes, Prices, Balances int
}

// Count devuelve el número de filas actuales.
func (s *Store) Count() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Products:   len(s.products),
		Images:     len(s.images),
		Stocks:     len(s.stocks),
		PriceTypes: len(s.priceTypes),
		Prices:     len(s.prices),
		Balances:   len(s.balances),
	}
}

// Price devuelve el precio guardado para (tipo de precio, producto).
func (s *Store) Price(priceTypeID, productID string) *entity.Price {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.prices[[2]string{priceTypeID, productID}]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// Balance devuelve la existencia guardada para (almacén, producto).
func (s *Store) Balance(stockID, productID string) *entity.StockBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[[2]string{stockID, productID}]; ok {
		cp := *b
		return &cp
	}
	return nil
}
