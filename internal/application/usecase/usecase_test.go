package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/usecase"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/memory"
)

func seedCatalog(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.AddCompany(entity.Company{ID: "c1", Name: "ACME", Status: "active"})
	store.AddCompany(entity.Company{ID: "c2", Name: "Suspendida", Status: "suspended"})
	store.AddUser(entity.User{ID: "u1", CompanyID: "c1", Email: "a@acme.test", Role: entity.RoleAdmin, Status: "active"})

	products := store.Products()
	for _, p := range []entity.Product{
		{ID: "p1", CompanyID: "c1", ExternalID: "A1", ProductID: "A1", Name: "Martillo", Number: "M-1"},
		{ID: "p2", CompanyID: "c1", ExternalID: "A2", ProductID: "A2", Name: "Alicate", Number: "AL-1"},
		{ID: "p3", CompanyID: "c1", ExternalID: "A3", ProductID: "A3", Name: "Borrado", Deleted: true},
		{ID: "p4", CompanyID: "c2", ExternalID: "A1", ProductID: "A1", Name: "Ajeno"},
	} {
		require.NoError(t, products.Create(ctx, &p))
	}

	require.NoError(t, store.Stocks().Upsert(ctx, &entity.Stock{ID: "s1", CompanyID: "c1", ExternalID: "S1", Name: "Central"}))
	require.NoError(t, store.Stocks().Upsert(ctx, &entity.Stock{ID: "s2", CompanyID: "c1", ExternalID: "S2", Name: "Bodega Norte"}))
	require.NoError(t, store.PriceTypes().Upsert(ctx, &entity.PriceType{ID: "pt1", CompanyID: "c1", ExternalID: "P1", Name: "Minorista", Currency: "COP"}))
	require.NoError(t, store.Prices().Upsert(ctx, &entity.Price{PriceTypeID: "pt1", ProductID: "p1", Value: decimal.RequireFromString("10.50")}))
	require.NoError(t, store.Balances().Upsert(ctx, &entity.StockBalance{StockID: "s1", ProductID: "p1", Quantity: decimal.NewFromInt(5)}))
	require.NoError(t, store.Images().Create(ctx, &entity.ProductImage{ID: "products/p1/a.jpg", ProductID: "p1", URL: "https://cdn.test/products/p1/a.jpg", CommerceML: true}))
	return store
}

func TestCompanyUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCompanyUseCase(seedCatalog(t))

	out, err := uc.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "ACME", out.Name)

	out, err = uc.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, out)

	active, err := uc.IsActive(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, active)
	active, err = uc.IsActive(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, active)
	active, err = uc.IsActive(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestProductUseCase_List(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(seedCatalog(t).Catalog())

	out, err := uc.List(ctx, "c1", 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Alicate", out.Items[0].Name)
	assert.Equal(t, "Martillo", out.Items[1].Name)

	out, err = uc.List(ctx, "c1", 1, 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Martillo", out.Items[0].Name)
	assert.Equal(t, 1, out.Page.Limit)
}

func TestProductUseCase_GetByID(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(seedCatalog(t).Catalog())

	out, err := uc.GetByID(ctx, "c1", "p1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "M-1", out.Number)
	require.Len(t, out.Images, 1)
	assert.Equal(t, "https://cdn.test/products/p1/a.jpg", out.Images[0].URL)
	require.Len(t, out.Prices, 1)
	assert.Equal(t, "Minorista", out.Prices[0].PriceTypeName)
	assert.Equal(t, "COP", out.Prices[0].Currency)
	assert.True(t, out.Prices[0].Value.Equal(decimal.RequireFromString("10.5")))
	require.Len(t, out.Balances, 1)
	assert.Equal(t, "Central", out.Balances[0].StockName)
	assert.True(t, out.Balances[0].Quantity.Equal(decimal.NewFromInt(5)))

	// Sin datos de oferta: listas vacías, no nil.
	out, err = uc.GetByID(ctx, "c1", "p2")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotNil(t, out.Prices)
	assert.Empty(t, out.Balances)

	for _, tc := range []struct{ company, id string }{
		{"c1", "p3"},   // borrado
		{"c1", "p4"},   // otra empresa
		{"c1", "nope"}, // inexistente
	} {
		out, err = uc.GetByID(ctx, tc.company, tc.id)
		require.NoError(t, err)
		assert.Nil(t, out, tc.id)
	}
}

func TestStockUseCase(t *testing.T) {
	ctx := context.Background()
	store := seedCatalog(t)
	uc := usecase.NewStockUseCase(store.Stocks(), store.PriceTypes())

	stocks, err := uc.ListStocks(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, stocks.Items, 2)
	assert.Equal(t, "Bodega Norte", stocks.Items[0].Name)
	assert.Equal(t, "S1", stocks.Items[1].ExternalID)

	pts, err := uc.ListPriceTypes(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, pts.Items, 1)
	assert.Equal(t, "COP", pts.Items[0].Currency)

	empty, err := uc.ListStocks(ctx, "c2")
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewUserUseCase(seedCatalog(t).Users())

	out, err := uc.GetByID(ctx, "c1", "u1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "a@acme.test", out.Email)

	out, err = uc.GetByID(ctx, "c2", "u1")
	require.NoError(t, err)
	assert.Nil(t, out)
}
