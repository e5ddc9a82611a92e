package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpiface "github.com/jhoicas/ventapro-api/internal/interfaces/http"
	"github.com/jhoicas/ventapro-api/pkg/jwt"
)

const testSecret = "secreto-de-test"

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protegida", httpiface.AuthMiddleware(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  httpiface.GetUserID(c),
			"store_id": httpiface.GetStoreID(c),
		})
	})
	return app
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/protegida", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := testApp(t)

	for _, header := range []string{"token-sin-esquema", "Basic abc123", "Bearer "} {
		req := httptest.NewRequest("GET", "/protegida", nil)
		req.Header.Set("Authorization", header)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthMiddleware_TokenConFirmaIncorrecta(t *testing.T) {
	app := testApp(t)

	token, err := jwt.Generate("otro-secreto", "user-1", "tienda-1", "ventapro", 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := testApp(t)

	token, err := jwt.Generate(testSecret, "user-1", "tienda-1", "ventapro", 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWT_GenerateParse(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-7", "tienda-9", "ventapro", 15)
	require.NoError(t, err)

	userID, storeID, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)
	assert.Equal(t, "tienda-9", storeID)

	_, _, err = jwt.Parse("secreto-equivocado", token)
	assert.Error(t, err)
}
