package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Revenue-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "u1", "c1", pkgjwt.RoleAdmin, "revenue-api", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, pkgjwt.RoleAdmin, claims.Role)
	assert.Equal(t, "revenue-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "u1", "c1", pkgjwt.RoleViewer, "revenue-api", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "u1", "c1", pkgjwt.RoleViewer, "revenue-api", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestParse_SinEmpresa(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "u1", "", pkgjwt.RoleViewer, "revenue-api", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "c1", pkgjwt.RoleViewer, "revenue-api", 5)
	assert.Error(t, err)
}
