package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
)

// companyChecker es el contrato mínimo que necesita el middleware para verificar la empresa.
// Lo implementa *usecase.CompanyUseCase.
type companyChecker interface {
	IsActive(ctx context.Context, companyID string) (bool, error)
}

// RequireActiveCompany devuelve un middleware que rechaza las peticiones de empresas
// suspendidas o inexistentes. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalCompanyID).
//
// Comportamiento:
//   - 403 Forbidden → empresa inexistente o no activa.
//   - 503 Service Unavailable → fallo al consultar la DB.
func RequireActiveCompany(checker companyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), companyID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "COMPANY_INACTIVE",
				Message: "la empresa no está activa",
			})
		}
		return c.Next()
	}
}
