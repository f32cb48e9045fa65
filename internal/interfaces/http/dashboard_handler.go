package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/fakturi-api/internal/application/analytics"
)

// DashboardHandler tablero de la empresa.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del mes en curso.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO (facturación del mes, facturas por estado, ventas,
// serie de 12 meses y mejores clientes). Las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
