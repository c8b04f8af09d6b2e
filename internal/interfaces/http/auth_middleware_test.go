package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	pkgjwt "github.com/jhoicas/catalog-exchange/pkg/jwt"
)

const (
	testJWTSecret = "exchange-api-test-secret"
	testUserID    = "u-erp"
	testCompanyID = "company-1"
	testIssuer    = "catalog-exchange-test"
	testExpMin    = 60
)

// tokenFor firma un token de operador para la empresa indicada.
func tokenFor(t *testing.T, userID, companyID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, companyID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole token del usuario del ERP de testCompanyID con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return tokenFor(t, testUserID, testCompanyID, role, testExpMin)
}

// apiError hace GET y devuelve el status y el código de error del cuerpo JSON.
func (a *exchangeApp) apiError(t *testing.T, path, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, body := a.do(t, req)
	if resp.StatusCode == http.StatusOK {
		return resp.StatusCode, ""
	}
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return resp.StatusCode, out.Code
}

func TestAuthMiddleware_RechazaTokensNoValidos(t *testing.T) {
	a := newExchangeApp(t)
	foreign, err := pkgjwt.Generate("otro-secreto", testUserID, testCompanyID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"credenciales basic", basic("erp@acme.test", "pw"), "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", tokenFor(t, testUserID, testCompanyID, entity.RoleAdmin, -1), "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := a.apiError(t, "/api/products", tt.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestAuthMiddleware_ElProtocoloNoUsaTokenDeOperador(t *testing.T) {
	a := newExchangeApp(t)
	// /exchange tiene su propia sesión; el middleware de la API no lo intercepta.
	resp, body := a.do(t, httptest.NewRequest(http.MethodGet, "/exchange/"+testCompanyID+"?mode=init", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "zip=no\nfile_limit=4096", body)
}

func TestRequireRole_JobsSoloParaAdmin(t *testing.T) {
	a := newExchangeApp(t)

	tests := []struct {
		role   string
		status int
		code   string
	}{
		{entity.RoleAdmin, http.StatusOK, ""},
		{entity.RoleManager, http.StatusForbidden, "FORBIDDEN"},
		{entity.RoleViewer, http.StatusForbidden, "FORBIDDEN"},
		{"", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tt := range tests {
		t.Run("rol "+tt.role, func(t *testing.T) {
			status, code := a.apiError(t, "/api/exchange/jobs", tokenForRole(t, tt.role))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)

			// El catálogo es legible con cualquier rol autenticado.
			status, _ = a.apiError(t, "/api/stocks", tokenForRole(t, tt.role))
			assert.Equal(t, http.StatusOK, status)
		})
	}
}

func TestAuthMiddleware_TokenAcotadoASuEmpresa(t *testing.T) {
	a := newExchangeApp(t)
	a.store.AddCompany(entity.Company{ID: "company-2", Name: "Ferretería Sur", Status: "active"})
	ctx := context.Background()
	ledger := exchange.NewLedger(a.store.Jobs())
	ours, err := ledger.Create(ctx, testCompanyID, "/staging/company-1/shared/import.xml", entity.DocCatalogImport, "en")
	require.NoError(t, err)
	theirs, err := ledger.Create(ctx, "company-2", "/staging/company-2/shared/offers.xml", entity.DocOffersImport, "en")
	require.NoError(t, err)

	other := tokenFor(t, "u-sur", "company-2", entity.RoleAdmin, testExpMin)

	var list dto.ExchangeJobListResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/exchange/jobs", other, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, theirs.ID, list.Items[0].ID)
	assert.Equal(t, "company-2", list.Items[0].CompanyID)

	status, code := a.apiError(t, "/api/exchange/jobs/"+ours.ID, other)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", code)
	status, _ = a.apiError(t, "/api/exchange/jobs/"+ours.ID+"/logs", other)
	assert.Equal(t, http.StatusNotFound, status)

	var company dto.CompanyResponse
	require.Equal(t, http.StatusOK, a.getJSON(t, "/api/company", other, &company))
	assert.Equal(t, "company-2", company.ID)
	assert.Equal(t, "Ferretería Sur", company.Name)
}
