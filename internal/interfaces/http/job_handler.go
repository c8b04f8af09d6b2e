package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
)

// JobHandler consulta de jobs de intercambio y su log (protegido, empresa del token).
type JobHandler struct {
	ledger  *exchange.Ledger
	journal *exchange.Journal
}

// NewJobHandler construye el handler.
func NewJobHandler(ledger *exchange.Ledger, journal *exchange.Journal) *JobHandler {
	return &JobHandler{ledger: ledger, journal: journal}
}

func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.NewPageRequest(c.QueryInt("limit"), c.QueryInt("offset"))
}

// List godoc
// @Summary      Listar jobs de intercambio
// @Tags         exchange
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ExchangeJobListResponse
// @Router       /api/exchange/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	page := pageFrom(c)
	jobs, err := h.ledger.ListByCompany(c.UserContext(), companyID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ExchangeJobListResponse{
		Items: make([]dto.ExchangeJobResponse, 0, len(jobs)),
		Page:  page.Response(0),
	}
	for _, j := range jobs {
		out.Items = append(out.Items, dto.ToExchangeJobResponse(j))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener job de intercambio
// @Tags         exchange
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del job"
// @Success      200  {object}  dto.ExchangeJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exchange/jobs/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.ledger.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if job == nil || job.CompanyID != GetCompanyID(c) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "job no encontrado"})
	}
	return c.JSON(dto.ToExchangeJobResponse(job))
}

// Logs godoc
// @Summary      Log de un job de intercambio
// @Tags         exchange
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del job"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ExchangeLogListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exchange/jobs/{id}/logs [get]
func (h *JobHandler) Logs(c *fiber.Ctx) error {
	ctx := c.UserContext()
	job, err := h.ledger.Get(ctx, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if job == nil || job.CompanyID != GetCompanyID(c) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "job no encontrado"})
	}
	page := pageFrom(c)
	entries, err := h.journal.Entries(ctx, job.ID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ExchangeLogListResponse{
		Items: make([]dto.ExchangeLogResponse, 0, len(entries)),
		Page:  page.Response(0),
	}
	for _, e := range entries {
		out.Items = append(out.Items, dto.ToExchangeLogResponse(e))
	}
	return c.JSON(out)
}
