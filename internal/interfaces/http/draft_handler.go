package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/wizard"
)

// DraftHandler asistentes de factura y venta. Cada respuesta trae el borrador completo
// con totales y estado de los pasos recalculados.
type DraftHandler struct {
	uc *billing.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *billing.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

func draftResult(c *fiber.Ctx, status int, out *dto.DraftResponse, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(status).JSON(out)
}

func indexParam(c *fiber.Ctx) (int, bool) {
	idx, err := c.ParamsInt("index")
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func invalidIndex(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "Невалиден номер"})
}

// Start godoc
// @Summary      Abrir un asistente de factura o venta
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.StartDraftRequest  true  "kind: invoice|sale; edit_id opcional"
// @Success      201   {object}  dto.DraftResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/drafts [post]
func (h *DraftHandler) Start(c *fiber.Ctx) error {
	var in dto.StartDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Start(c.UserContext(), actorFrom(c), in)
	return draftResult(c, fiber.StatusCreated, out, err)
}

// Get GET /api/drafts/:id
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(actorFrom(c), c.Params("id"))
	return draftResult(c, fiber.StatusOK, out, err)
}

// Cancel DELETE /api/drafts/:id
func (h *DraftHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem POST /api/drafts/:id/items
func (h *DraftHandler) AddItem(c *fiber.Ctx) error {
	out, err := h.uc.AddItem(actorFrom(c), c.Params("id"))
	return draftResult(c, fiber.StatusOK, out, err)
}

// RemoveItem DELETE /api/drafts/:id/items/:index
func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	idx, ok := indexParam(c)
	if !ok {
		return invalidIndex(c)
	}
	out, err := h.uc.RemoveItem(actorFrom(c), c.Params("id"), idx)
	return draftResult(c, fiber.StatusOK, out, err)
}

// PatchItem PATCH /api/drafts/:id/items/:index. Solo se aplican los campos enviados.
func (h *DraftHandler) PatchItem(c *fiber.Ctx) error {
	idx, ok := indexParam(c)
	if !ok {
		return invalidIndex(c)
	}
	var in dto.DraftItemPatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PatchItem(actorFrom(c), c.Params("id"), idx, in)
	return draftResult(c, fiber.StatusOK, out, err)
}

// SelectArticle PUT /api/drafts/:id/items/:index/article
func (h *DraftHandler) SelectArticle(c *fiber.Ctx) error {
	idx, ok := indexParam(c)
	if !ok {
		return invalidIndex(c)
	}
	var in dto.DraftSelectArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SelectArticle(c.UserContext(), actorFrom(c), c.Params("id"), idx, in)
	return draftResult(c, fiber.StatusOK, out, err)
}

// PatchParty PATCH /api/drafts/:id/parties/:role (seller | buyer)
func (h *DraftHandler) PatchParty(c *fiber.Ctx) error {
	role := draft.Role(c.Params("role"))
	if !role.Valid() {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Непозната страна"})
	}
	var in dto.DraftPartyPatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PatchParty(actorFrom(c), c.Params("id"), role, in)
	return draftResult(c, fiber.StatusOK, out, err)
}

// SelectClient PUT /api/drafts/:id/client
func (h *DraftHandler) SelectClient(c *fiber.Ctx) error {
	var in dto.DraftSelectClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SelectClient(c.UserContext(), actorFrom(c), c.Params("id"), in)
	return draftResult(c, fiber.StatusOK, out, err)
}

// PatchDetails PATCH /api/drafts/:id/details
func (h *DraftHandler) PatchDetails(c *fiber.Ctx) error {
	var in dto.DraftDetailsPatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PatchDetails(actorFrom(c), c.Params("id"), in)
	return draftResult(c, fiber.StatusOK, out, err)
}

// SetDiscount PUT /api/drafts/:id/discount
func (h *DraftHandler) SetDiscount(c *fiber.Ctx) error {
	var in dto.DraftDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetDiscount(actorFrom(c), c.Params("id"), in)
	return draftResult(c, fiber.StatusOK, out, err)
}

// Next POST /api/drafts/:id/next
func (h *DraftHandler) Next(c *fiber.Ctx) error {
	out, err := h.uc.Next(actorFrom(c), c.Params("id"))
	return draftResult(c, fiber.StatusOK, out, err)
}

// Back POST /api/drafts/:id/back
func (h *DraftHandler) Back(c *fiber.Ctx) error {
	out, err := h.uc.Back(actorFrom(c), c.Params("id"))
	return draftResult(c, fiber.StatusOK, out, err)
}

// GoTo POST /api/drafts/:id/steps/:index
func (h *DraftHandler) GoTo(c *fiber.Ctx) error {
	idx, ok := indexParam(c)
	if !ok {
		return invalidIndex(c)
	}
	out, err := h.uc.GoTo(actorFrom(c), c.Params("id"), idx)
	return draftResult(c, fiber.StatusOK, out, err)
}

// Submit godoc
// @Summary      Enviar el borrador
// @Description  completed → 201; blocked y field_errors → 422; failed → 500.
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.DraftSubmitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.DraftSubmitResponse
// @Router       /api/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusUnprocessableEntity
	switch wizard.SubmitStatus(out.Status) {
	case wizard.SubmitCompleted:
		status = fiber.StatusCreated
	case wizard.SubmitFailed:
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(out)
}
