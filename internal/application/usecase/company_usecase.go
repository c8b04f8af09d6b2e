package usecase

import (
	"context"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
)

// CompanyUseCase consulta de la empresa (tenant) del usuario.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// GetByID obtiene una empresa por ID. Devuelve (nil, nil) si no existe.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return entityToCompanyResponse(company), nil
}

// IsActive indica si la empresa existe y está activa.
func (uc *CompanyUseCase) IsActive(ctx context.Context, id string) (bool, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return company != nil && company.Status == "active", nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
