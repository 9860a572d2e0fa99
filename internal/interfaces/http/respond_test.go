package http

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saif-farmacia/saif-api/internal/domain"
)

func appQueFalla(err error) *fiber.App {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error { return writeError(c, err) })
	return app
}

func TestWriteError_UUIDMalFormado_Retorna400(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
	app := appQueFalla(fmt.Errorf("get lote: %w", pgErr))

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"success":false`)
}

func TestWriteError_NotFound_Retorna404(t *testing.T) {
	app := appQueFalla(fmt.Errorf("lote abc: %w", domain.ErrNotFound))

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWriteError_ErrorDesconocido_Retorna500(t *testing.T) {
	app := appQueFalla(fmt.Errorf("conexión perdida"))

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
