package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/application/usecase"
)

// StockHandler almacenes y tipos de precio declarados por el ERP.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListStocks godoc
// @Summary      Listar almacenes
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stocks [get]
func (h *StockHandler) ListStocks(c *fiber.Ctx) error {
	out, err := h.uc.ListStocks(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListPriceTypes godoc
// @Summary      Listar tipos de precio
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PriceTypeListResponse
// @Router       /api/price-types [get]
func (h *StockHandler) ListPriceTypes(c *fiber.Ctx) error {
	out, err := h.uc.ListPriceTypes(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
