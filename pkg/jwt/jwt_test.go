package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/catalog-exchange/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_Sesion(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "user-1", "company-1", "admin", "test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	s, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.Session{UserID: "user-1", CompanyID: "company-1", Role: "admin"}, s)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "user-1", "company-1", "admin", "test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "user-1", "company-1", "admin", "test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "user-1", "company-1", "admin", "test", 60)
	assert.Error(t, err)
}
