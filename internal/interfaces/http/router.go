package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/application/auth"
	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/application/usecase"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Exchange      *exchange.Service
	Ledger        *exchange.Ledger
	Journal       *exchange.Journal
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	StockUC       *usecase.StockUseCase
	JWTSecret     string
	SessionCookie string
	DefaultLocale string
	Logger        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Protocolo del ERP (texto plano)
	exchangeHandler := NewExchangeHandler(deps.Exchange, deps.SessionCookie, deps.DefaultLocale, deps.Logger)
	app.Get("/exchange/:companyId", exchangeHandler.Handle)
	app.Post("/exchange/:companyId", exchangeHandler.Handle)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Group("/auth").Post("/login", authHandler.Login)

	authn := AuthMiddleware(deps.JWTSecret)
	active := RequireActiveCompany(deps.CompanyUC)

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.UserUC)
	api.Get("/me", authn, active, companyHandler.Me)
	api.Get("/company", authn, active, companyHandler.Get)

	// Catálogo importado (solo lectura)
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", authn, active, productHandler.List)
	api.Get("/products/:id", authn, active, productHandler.GetByID)
	stockHandler := NewStockHandler(deps.StockUC)
	api.Get("/stocks", authn, active, stockHandler.ListStocks)
	api.Get("/price-types", authn, active, stockHandler.ListPriceTypes)

	// Jobs (solo admin)
	jobs := api.Group("/exchange/jobs", authn, active, RequireRole(entity.RoleAdmin))
	jobHandler := NewJobHandler(deps.Ledger, deps.Journal)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Get("/:id/logs", jobHandler.Logs)
}
