package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(nil)})
	app.Get("/", func(c *fiber.Ctx) error { return respondError(c, err) })
	return app
}

func callError(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	resp, e := errorApp(err).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests respondError
// ──────────────────────────────────────────────────────────────────────────────

func TestRespondError_ValidacionDevuelve422ConCampos(t *testing.T) {
	status, body := callError(t, validation.Field("email", "Невалиден имейл"))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, []string{"Невалиден имейл"}, body.Errors["email"])
}

func TestRespondError_ErrorDeBorradorSeparaGenerales(t *testing.T) {
	err := draft.NewValidationError(map[string]string{
		"seller.bankAccount": "Липсва IBAN",
		"unknown.key":        "Сървърът е недостъпен",
	})
	status, body := callError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"Липсва IBAN"}, body.Errors["seller.bankAccount"])
	assert.Equal(t, "Сървърът е недостъпен", body.Message)
	assert.NotContains(t, body.Errors, "unknown.key")
}

func TestRespondError_SentinelasEnvueltas(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := callError(t, fmt.Errorf("capa: %w", tc.err))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestRespondError_ErrorInternoNoFiltraDetalle(t *testing.T) {
	status, body := callError(t, errors.New("pq: connection refused 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "10.0.0.5")
}
