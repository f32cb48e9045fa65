package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/pkg/logger"
)

const (
	msgValidation = "Проверете въведените данни"
	msgInternal   = "Възникна грешка. Опитайте отново."
	msgBadBody    = "Невалидно тяло на заявката"
)

var sentinelStatus = []struct {
	err    error
	status int
	code   string
	msg    string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Не е намерено"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", "Грешен имейл или парола"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "Грешен имейл или парола"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "Нямате достъп до този ресурс"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "Имейлът вече е регистриран"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "Записът вече съществува"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "Действието не е възможно в текущото състояние"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", "Невалидни данни"},
}

// respondError traduce errores de aplicación al contrato {code, message, errors}.
// Lo desconocido sube al ErrorHandler de Fiber (500 sin detalles internos).
func respondError(c *fiber.Ctx, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: msgValidation, Errors: ve.Fields,
		})
	}
	var de *draft.ValidationError
	if errors.As(err, &de) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(draftErrorResponse(de.Fields, de.General))
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return c.Status(s.status).JSON(dto.ErrorResponse{Code: s.code, Message: s.msg})
		}
	}
	return err
}

func draftErrorResponse(fields draft.FieldErrors, general []string) dto.ErrorResponse {
	out := dto.ErrorResponse{Code: "VALIDATION", Message: msgValidation}
	if len(general) > 0 {
		out.Message = general[0]
	}
	if len(fields) > 0 {
		out.Errors = make(map[string][]string, len(fields))
		for k, msg := range fields {
			out.Errors[string(k)] = []string{msg}
		}
	}
	return out
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: msgBadBody})
}

// NewErrorHandler ErrorHandler de Fiber: registra el error y responde sin filtrar detalles.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msgInternal})
	}
}
