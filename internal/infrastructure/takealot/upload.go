package takealot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/credential"
)

const genericUploadReason = "no se pudo subir el PDF"

// UploadFilename nombre del adjunto que recibe Takealot para la solicitud.
func UploadFilename(requestID int64) string {
	return "invoice-" + strconv.FormatInt(requestID, 10) + ".pdf"
}

// UploadInvoice POST /sales/customer_invoice_request/{requestID}/upload con el PDF
// en el campo multipart "invoice".
func (c *Client) UploadInvoice(ctx context.Context, requestID int64, pdf []byte, apiKey string) error {
	if len(pdf) == 0 {
		return &domain.UploadError{Reason: domain.ErrNoPDF.Error(), Err: domain.ErrNoPDF}
	}
	auth := credential.AuthorizationHeader(apiKey)
	if auth == "" {
		return &domain.UploadError{Reason: domain.ErrMissingCredential.Error(), Err: domain.ErrMissingCredential}
	}

	body, contentType, err := multipartPDF(requestID, pdf)
	if err != nil {
		return &domain.UploadError{Reason: genericUploadReason, Err: err}
	}

	path := fmt.Sprintf("/sales/customer_invoice_request/%d/upload", requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), body)
	if err != nil {
		return &domain.UploadError{Reason: genericUploadReason, Err: fmt.Errorf("takealot: crear request: %w", err)}
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", contentType)
	c.setRelayHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.UploadError{Reason: genericUploadReason, Err: fmt.Errorf("takealot: llamada HTTP fallida: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	rawBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	reason := genericUploadReason
	var errResp struct {
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Message != "" {
		reason = errResp.Message
	}
	return &domain.UploadError{
		Reason: reason,
		Status: resp.StatusCode,
		Err:    fmt.Errorf("takealot: upload HTTP %d: %s", resp.StatusCode, truncate(string(rawBody), 512)),
	}
}

// multipartPDF arma el cuerpo multipart con el PDF como application/pdf.
func multipartPDF(requestID int64, pdf []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="invoice"; filename="%s"`, UploadFilename(requestID)))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("takealot: crear parte multipart: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, "", fmt.Errorf("takealot: escribir PDF: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("takealot: cerrar multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
