package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/takealot-invoicer/internal/application/dto"
	"github.com/jhoicas/takealot-invoicer/internal/application/usecase"
)

// SettingsHandler configuración del vendedor (protegido).
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración del vendedor
// @Description  La API key se devuelve sin el prefijo "Key ".
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Put godoc
// @Summary      Guardar configuración del vendedor
// @Description  Todos los campos son requeridos; la key se guarda como "Key <token>".
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SettingsRequest  true  "perfil del vendedor"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Save(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
