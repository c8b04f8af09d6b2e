package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	pkgjwt "github.com/jhoicas/catalog-exchange/pkg/jwt"
)

func (a *exchangeApp) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []entity.Product{
		{ID: "p1", CompanyID: testCompanyID, ExternalID: "A1", ProductID: "A1", Name: "Martillo"},
		{ID: "p2", CompanyID: "company-x", ExternalID: "A1", ProductID: "A1", Name: "Ajeno"},
	} {
		require.NoError(t, a.store.Products().Create(ctx, &p))
	}
	require.NoError(t, a.store.Stocks().Upsert(ctx, &entity.Stock{ID: "s1", CompanyID: testCompanyID, ExternalID: "S1", Name: "Central"}))
	require.NoError(t, a.store.PriceTypes().Upsert(ctx, &entity.PriceType{ID: "pt1", CompanyID: testCompanyID, ExternalID: "P1", Name: "Minorista", Currency: "COP"}))
	require.NoError(t, a.store.Prices().Upsert(ctx, &entity.Price{PriceTypeID: "pt1", ProductID: "p1", Value: decimal.RequireFromString("10.5")}))
	require.NoError(t, a.store.Balances().Upsert(ctx, &entity.StockBalance{StockID: "s1", ProductID: "p1", Quantity: decimal.NewFromInt(3)}))
}

func (a *exchangeApp) getJSON(t *testing.T, path, auth string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, body := a.do(t, req)
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal([]byte(body), out))
	}
	return resp.StatusCode
}

func TestCatalogAPI_Productos(t *testing.T) {
	a := newExchangeApp(t)
	a.seedCatalog(t)
	auth := tokenForRole(t, entity.RoleViewer)

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/products", auth, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Martillo", list.Items[0].Name)
	assert.Equal(t, 20, list.Page.Limit)

	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/products?limit=500&offset=-3", auth, &list))
	assert.Equal(t, 100, list.Page.Limit, "el límite se acota")
	assert.Equal(t, 0, list.Page.Offset)

	var detail dto.ProductDetailResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/products/p1", auth, &detail))
	assert.Equal(t, "A1", detail.ExternalID)
	require.Len(t, detail.Prices, 1)
	assert.Equal(t, "Minorista", detail.Prices[0].PriceTypeName)
	require.Len(t, detail.Balances, 1)
	assert.Equal(t, "Central", detail.Balances[0].StockName)

	assert.Equal(t, http.StatusNotFound, a.getJSON(t, "/api/products/p2", auth, nil), "producto de otra empresa")
	assert.Equal(t, http.StatusUnauthorized, a.getJSON(t, "/api/products", "", nil))
}

func TestCatalogAPI_AlmacenesYTiposDePrecio(t *testing.T) {
	a := newExchangeApp(t)
	a.seedCatalog(t)
	auth := tokenForRole(t, entity.RoleManager)

	var stocks dto.StockListResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/stocks", auth, &stocks))
	require.Len(t, stocks.Items, 1)
	assert.Equal(t, "S1", stocks.Items[0].ExternalID)

	var pts dto.PriceTypeListResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/price-types", auth, &pts))
	require.Len(t, pts.Items, 1)
	assert.Equal(t, "COP", pts.Items[0].Currency)
}

func TestCatalogAPI_EmpresaYUsuario(t *testing.T) {
	a := newExchangeApp(t)
	auth := tokenForRole(t, entity.RoleAdmin)

	var company dto.CompanyResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/company", auth, &company))
	assert.Equal(t, "ACME", company.Name)

	var me dto.UserResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/me", auth, &me))
	assert.Equal(t, "erp@acme.test", me.Email)
}

func TestCatalogAPI_EmpresaInactiva(t *testing.T) {
	a := newExchangeApp(t)
	a.store.AddCompany(entity.Company{ID: "company-s", Name: "Suspendida", Status: "suspended"})

	tok, err := pkgjwt.Generate(testJWTSecret, "u9", "company-s", entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, a.getJSON(t, "/api/products", "Bearer "+tok, nil))

	tok, err = pkgjwt.Generate(testJWTSecret, "u9", "company-ghost", entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, a.getJSON(t, "/api/exchange/jobs", "Bearer "+tok, nil))
}
