// Package invoicing orquesta la consulta de solicitudes de factura en Takealot,
// la generación del PDF y su subida.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/takealot-invoicer/internal/application/dto"
	"github.com/jhoicas/takealot-invoicer/internal/application/ports"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/domain/pagination"
	"github.com/jhoicas/takealot-invoicer/internal/domain/repository"
	"github.com/jhoicas/takealot-invoicer/pkg/logger"
)

const (
	// RequestsPerPage filas por página del listado local.
	RequestsPerPage = 10

	activityLimit = 500
	sellerURLFmt  = "https://sellers.takealot.com/sales/invoice/%d"
)

// Options comportamiento opcional del caso de uso.
type Options struct {
	// SaveLocal guarda una copia de cada PDF descargado mediante el DocumentSaver.
	SaveLocal bool
}

// UseCase casos de uso de facturación. No guarda estado entre llamadas:
// cada PDF se devuelve explícitamente a quien lo pidió.
type UseCase struct {
	seller   ports.SellerAPI
	builder  ports.InvoicePDFBuilder
	report   ports.RequestsReportGenerator
	saver    ports.DocumentSaver
	events   repository.DocumentEventRepository
	profiles ProfileSource
	log      *logger.Logger
	opts     Options
	now      func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
// saver puede ser nil si no se guardan copias locales.
func NewUseCase(
	seller ports.SellerAPI,
	builder ports.InvoicePDFBuilder,
	report ports.RequestsReportGenerator,
	saver ports.DocumentSaver,
	events repository.DocumentEventRepository,
	profiles ProfileSource,
	log *logger.Logger,
	opts Options,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		seller:   seller,
		builder:  builder,
		report:   report,
		saver:    saver,
		events:   events,
		profiles: profiles,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// GetInvoice obtiene la factura y registra la vista.
func (uc *UseCase) GetInvoice(ctx context.Context, userID, number string) (*entity.InvoiceData, error) {
	profile, err := uc.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := uc.fetchInvoice(ctx, userID, number, profile)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, userID, number, data, entity.DocumentActionViewed, "", data.Subtotal())
	return data, nil
}

// RenderInvoice obtiene la factura, genera el PDF con la nota y registra la descarga.
func (uc *UseCase) RenderInvoice(ctx context.Context, userID, number, note string) (*entity.RenderedDocument, error) {
	profile, err := uc.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := uc.fetchInvoice(ctx, userID, number, profile)
	if err != nil {
		return nil, err
	}
	doc, err := uc.build(userID, data, note, profile)
	if err != nil {
		return nil, err
	}

	if uc.opts.SaveLocal && uc.saver != nil {
		path, err := uc.saver.Save(doc)
		if err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Str("filename", doc.Filename).Msg("no se pudo guardar la copia local del PDF")
		} else {
			uc.log.Debug().Str("path", path).Msg("copia local del PDF guardada")
		}
	}

	uc.record(ctx, userID, number, data, entity.DocumentActionDownloaded, doc.Filename, doc.Subtotal)
	return doc, nil
}

// UploadInvoice obtiene la solicitud requestID, regenera SIEMPRE el PDF con la nota
// actual y lo sube a Takealot. No existe un "último PDF" reutilizable.
func (uc *UseCase) UploadInvoice(ctx context.Context, userID string, requestID int64, note string) (*dto.UploadResponse, error) {
	if requestID <= 0 {
		return nil, fmt.Errorf("%w: request_id inválido", domain.ErrInvalidInput)
	}
	profile, err := uc.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	number := strconv.FormatInt(requestID, 10)
	data, err := uc.fetchInvoice(ctx, userID, number, profile)
	if err != nil {
		return nil, err
	}
	doc, err := uc.build(userID, data, note, profile)
	if err != nil {
		return nil, err
	}

	if err := uc.seller.UploadInvoice(ctx, requestID, doc.Bytes, profile.APIKey); err != nil {
		withCause(uc.log.Error(), err).Str("user_id", userID).Int64("request_id", requestID).Msg("subida del PDF a Takealot fallida")
		return nil, err
	}

	uc.log.Info().Str("user_id", userID).Int64("request_id", requestID).Str("filename", doc.Filename).Msg("PDF subido a Takealot")
	uc.record(ctx, userID, number, data, entity.DocumentActionUploaded, doc.Filename, doc.Subtotal)
	return &dto.UploadResponse{Uploaded: true, RequestID: requestID, Filename: doc.Filename}, nil
}

// ListRequests descarga la página remota (100 filas) y devuelve la página local page.
func (uc *UseCase) ListRequests(ctx context.Context, userID, status string, page int) (*dto.InvoiceRequestListResponse, error) {
	st, ok := entity.ParseRequestStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: estado %q (open|closed)", domain.ErrInvalidInput, status)
	}
	profile, err := uc.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	remote, err := uc.fetchRequests(ctx, userID, st, profile)
	if err != nil {
		return nil, err
	}

	activity := uc.activitySets(ctx, userID)
	slice := pagination.Slice(remote.Requests, page, RequestsPerPage)

	items := make([]dto.InvoiceRequestItem, 0, len(slice.Items))
	for _, r := range slice.Items {
		items = append(items, dto.InvoiceRequestItem{
			RequestID:  r.RequestID,
			ContextID:  r.ContextID,
			CreatedAt:  r.CreatedAt,
			ClosedAt:   r.ClosedAt,
			Viewed:     activity[entity.DocumentActionViewed][r.RequestID],
			Downloaded: activity[entity.DocumentActionDownloaded][r.RequestID],
			Uploaded:   activity[entity.DocumentActionUploaded][r.RequestID],
			SellerURL:  fmt.Sprintf(sellerURLFmt, r.RequestID),
		})
	}

	from, to := 0, 0
	if len(items) > 0 {
		from = (slice.Page-1)*slice.PerPage + 1
		to = from + len(items) - 1
	}

	return &dto.InvoiceRequestListResponse{
		Status:     string(st),
		Requests:   items,
		Total:      remote.Total(),
		Fetched:    len(remote.Requests),
		Page:       slice.Page,
		PerPage:    slice.PerPage,
		TotalPages: slice.TotalPages,
		Pages:      pagination.Numbers(slice.Page, slice.TotalPages),
		From:       from,
		To:         to,
	}, nil
}

// RequestsReport PDF con todas las solicitudes descargadas del estado dado.
func (uc *UseCase) RequestsReport(ctx context.Context, userID, status string) ([]byte, string, error) {
	st, ok := entity.ParseRequestStatus(status)
	if !ok {
		return nil, "", fmt.Errorf("%w: estado %q (open|closed)", domain.ErrInvalidInput, status)
	}
	profile, err := uc.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	remote, err := uc.fetchRequests(ctx, userID, st, profile)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.report.GenerateRequestsReport(st, remote, profile)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("generación del listado PDF fallida")
		return nil, "", err
	}
	return out, "invoice-requests-" + string(st) + ".pdf", nil
}

// Activity solicitudes vistas, descargadas y subidas por el usuario.
func (uc *UseCase) Activity(ctx context.Context, userID string) (*dto.ActivityResponse, error) {
	events, err := uc.events.ListByUser(ctx, userID, activityLimit)
	if err != nil {
		return nil, err
	}
	out := &dto.ActivityResponse{Viewed: []int64{}, Downloaded: []int64{}, Uploaded: []int64{}}
	seen := map[string]map[int64]bool{}
	for _, e := range events {
		key := eventKey(e)
		if seen[e.Action] == nil {
			seen[e.Action] = map[int64]bool{}
		}
		if seen[e.Action][key] {
			continue
		}
		seen[e.Action][key] = true
		switch e.Action {
		case entity.DocumentActionViewed:
			out.Viewed = append(out.Viewed, key)
		case entity.DocumentActionDownloaded:
			out.Downloaded = append(out.Downloaded, key)
		case entity.DocumentActionUploaded:
			out.Uploaded = append(out.Uploaded, key)
		}
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// withCause agrega al evento el status remoto y la causa que Error() no muestra.
func withCause(ev *zerolog.Event, err error) *zerolog.Event {
	ev = ev.Err(err)
	var (
		fErr *domain.FetchError
		uErr *domain.UploadError
	)
	switch {
	case errors.As(err, &fErr):
		ev = ev.Str("resource", fErr.Resource).Int("remote_status", fErr.Status).AnErr("cause", fErr.Err)
	case errors.As(err, &uErr):
		ev = ev.Int("remote_status", uErr.Status).AnErr("cause", uErr.Err)
	}
	return ev
}

func (uc *UseCase) fetchInvoice(ctx context.Context, userID, number string, profile entity.SenderProfile) (*entity.InvoiceData, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("%w: número de factura vacío", domain.ErrInvalidInput)
	}
	data, err := uc.seller.FetchInvoice(ctx, number, profile.APIKey)
	if err != nil {
		withCause(uc.log.Error(), err).Str("user_id", userID).Str("invoice", number).Msg("consulta de factura a Takealot fallida")
		return nil, err
	}
	return data, nil
}

func (uc *UseCase) fetchRequests(ctx context.Context, userID string, st entity.RequestStatus, profile entity.SenderProfile) (*entity.InvoiceRequestsPage, error) {
	remote, err := uc.seller.FetchInvoiceRequests(ctx, st, profile.APIKey)
	if err != nil {
		withCause(uc.log.Error(), err).Str("user_id", userID).Str("status", string(st)).Msg("consulta de solicitudes a Takealot fallida")
		return nil, err
	}
	return remote, nil
}

func (uc *UseCase) build(userID string, data *entity.InvoiceData, note string, profile entity.SenderProfile) (*entity.RenderedDocument, error) {
	doc, err := uc.builder.Build(data, note, profile)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Int64("invoice", data.OrderNumber).Msg("generación del PDF fallida")
		return nil, fmt.Errorf("generar PDF: %w", err)
	}
	return doc, nil
}

// record guarda el evento; un fallo de persistencia no interrumpe la operación.
func (uc *UseCase) record(ctx context.Context, userID, number string, data *entity.InvoiceData, action, filename string, subtotal decimal.Decimal) {
	e := &entity.DocumentEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		OrderNumber: data.OrderNumber,
		Action:      action,
		Filename:    filename,
		Subtotal:    subtotal,
		CreatedAt:   uc.now(),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(number), 10, 64); err == nil {
		e.RequestID = &id
	}
	if err := uc.events.Record(ctx, e); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("no se pudo registrar la actividad")
	}
}

// activitySets acción -> request_id -> true. Errores se registran y devuelven sets vacíos.
func (uc *UseCase) activitySets(ctx context.Context, userID string) map[string]map[int64]bool {
	sets := map[string]map[int64]bool{
		entity.DocumentActionViewed:     {},
		entity.DocumentActionDownloaded: {},
		entity.DocumentActionUploaded:   {},
	}
	events, err := uc.events.ListByUser(ctx, userID, activityLimit)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo leer la actividad")
		return sets
	}
	for _, e := range events {
		if s, ok := sets[e.Action]; ok {
			s[eventKey(e)] = true
		}
	}
	return sets
}

// eventKey número con el que el usuario pidió la factura; sin él, el order_number.
func eventKey(e *entity.DocumentEvent) int64 {
	if e.RequestID != nil {
		return *e.RequestID
	}
	return e.OrderNumber
}
