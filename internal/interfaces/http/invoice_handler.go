package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/takealot-invoicer/internal/application/dto"
	"github.com/jhoicas/takealot-invoicer/internal/application/invoicing"
)

// InvoiceHandler consulta y genera el PDF de facturas (protegido).
type InvoiceHandler struct {
	uc *invoicing.UseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *invoicing.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener factura
// @Description  Consulta la solicitud de factura en Takealot y registra la vista.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  entity.InvoiceData
// @Failure      412  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	data, err := h.uc.GetInvoice(c.Context(), userID, c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(data)
}

// RenderPDF godoc
// @Summary      Descargar PDF de la factura
// @Description  Genera el PDF de una página con la nota opcional del cuerpo.
// @Tags         invoices
// @Accept       json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        number  path  string  true  "Número de factura"
// @Param        body    body  dto.RenderInvoiceRequest  false  "nota"
// @Success      200  {file}  binary
// @Failure      412  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/pdf [post]
func (h *InvoiceHandler) RenderPDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RenderInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	doc, err := h.uc.RenderInvoice(c.Context(), userID, c.Params("number"), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, doc.Filename, doc.Bytes)
}

// InvoiceRequestHandler listado y subida de solicitudes de factura (protegido).
type InvoiceRequestHandler struct {
	uc *invoicing.UseCase
}

// NewInvoiceRequestHandler construye el handler.
func NewInvoiceRequestHandler(uc *invoicing.UseCase) *InvoiceRequestHandler {
	return &InvoiceRequestHandler{uc: uc}
}

// List godoc
// @Summary      Listar solicitudes de factura
// @Description  Descarga la primera página remota (100 filas) y la pagina de a 10.
// @Tags         invoice-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  path   string  true   "open | closed"
// @Param        page    query  int     false  "Página local (1-based)"
// @Success      200  {object}  dto.InvoiceRequestListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoice-requests/{status} [get]
func (h *InvoiceRequestHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	page := c.QueryInt("page", 1)
	out, err := h.uc.ListRequests(c.Context(), userID, c.Params("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Listado PDF de solicitudes
// @Tags         invoice-requests
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        status  path  string  true  "open | closed"
// @Success      200  {file}  binary
// @Router       /api/invoice-requests/{status}/report [get]
func (h *InvoiceRequestHandler) Report(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, filename, err := h.uc.RequestsReport(c.Context(), userID, c.Params("status"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, filename, out)
}

// Upload godoc
// @Summary      Subir factura a Takealot
// @Description  Regenera el PDF con la nota actual y lo adjunta a la solicitud.
// @Tags         invoice-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestId  path  int  true  "ID de la solicitud"
// @Param        body       body  dto.RenderInvoiceRequest  false  "nota"
// @Success      200  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoice-requests/{requestId}/upload [post]
func (h *InvoiceRequestHandler) Upload(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	requestID, err := strconv.ParseInt(c.Params("requestId"), 10, 64)
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "requestId inválido"})
	}
	var in dto.RenderInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.UploadInvoice(c.Context(), userID, requestID, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad del usuario
// @Description  Solicitudes vistas, descargadas y subidas; más recientes primero.
// @Tags         invoice-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ActivityResponse
// @Router       /api/activity [get]
func (h *InvoiceRequestHandler) Activity(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Activity(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func sendPDF(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(body)
}
