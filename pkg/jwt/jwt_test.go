package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/tienda-core/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateAndParse_ConShopYRole(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "shop-1", "cajero", "tienda-test", 60)
	require.NoError(t, err)

	userID, shopID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "shop-1", shopID)
	assert.Equal(t, "cajero", role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "shop-1", "admin", "tienda-test", -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "shop-1", "admin", "tienda-test", 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u", "s", "admin", "i", 1)
	assert.Error(t, err)
}
