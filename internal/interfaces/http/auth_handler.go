package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fakturi-api/internal/application/auth"
	"github.com/jhoicas/fakturi-api/internal/application/dto"
)

// AuthHandler maneja registro, login e identidad.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// CheckUserData godoc
// @Summary      Validar el primer paso del registro
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPersonalData  true  "datos personales"
// @Success      204
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/register/check [post]
func (h *AuthHandler) CheckUserData(c *fiber.Ctx) error {
	var in dto.RegisterPersonalData
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.CheckUserData(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Register godoc
// @Summary      Registrar usuario y empresa
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "usuario y empresa"
// @Success      201   {object}  dto.LoginResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario y empresa del token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Router       /api/user [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
