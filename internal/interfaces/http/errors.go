package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/takealot-invoicer/internal/application/dto"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
)

// writeError traduce errores de dominio a status + dto.ErrorResponse.
// Los errores remotos exponen solo su mensaje genérico; la causa ya quedó en el log.
func writeError(c *fiber.Ctx, err error) error {
	var (
		vErr *domain.ValidationError
		fErr *domain.FetchError
		uErr *domain.UploadError
	)
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Code: "VALIDATION", Message: vErr.Error(), Fields: vErr.Fields,
		})
	case errors.Is(err, domain.ErrSettingsIncomplete), errors.Is(err, domain.ErrMissingCredential):
		return c.Status(fiber.StatusPreconditionFailed).JSON(dto.ErrorResponse{
			Code: "SETTINGS_INCOMPLETE", Message: "complete la configuración del vendedor (API key y datos de la empresa)",
		})
	case errors.As(err, &uErr):
		if errors.Is(err, domain.ErrNoPDF) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_PDF", Message: uErr.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPLOAD_FAILED", Message: uErr.Error()})
	case errors.As(err, &fErr):
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: fErr.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FETCH_FAILED", Message: fErr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva o suspendida"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
