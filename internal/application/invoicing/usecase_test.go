package invoicing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/takealot-invoicer/internal/application/invoicing"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSeller struct {
	invoice     *entity.InvoiceData
	requests    *entity.InvoiceRequestsPage
	fetchErr    error
	uploadErr   error
	fetched     []string
	uploadedPDF [][]byte
	uploadedIDs []int64
	keys        []string
}

func (f *fakeSeller) FetchInvoice(_ context.Context, number, apiKey string) (*entity.InvoiceData, error) {
	f.fetched = append(f.fetched, number)
	f.keys = append(f.keys, apiKey)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	cp := *f.invoice
	return &cp, nil
}

func (f *fakeSeller) FetchInvoiceRequests(_ context.Context, _ entity.RequestStatus, apiKey string) (*entity.InvoiceRequestsPage, error) {
	f.keys = append(f.keys, apiKey)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.requests, nil
}

func (f *fakeSeller) UploadInvoice(_ context.Context, requestID int64, pdf []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploadedIDs = append(f.uploadedIDs, requestID)
	f.uploadedPDF = append(f.uploadedPDF, pdf)
	return nil
}

// fakeBuilder devuelve como bytes la nota recibida, para saber qué build se subió.
type fakeBuilder struct {
	notes []string
}

func (b *fakeBuilder) Build(data *entity.InvoiceData, note string, _ entity.SenderProfile) (*entity.RenderedDocument, error) {
	b.notes = append(b.notes, note)
	return &entity.RenderedDocument{
		OrderNumber: data.OrderNumber,
		Filename:    fmt.Sprintf("invoice-%d-X.pdf", data.OrderNumber),
		Bytes:       []byte("pdf:" + note),
		Subtotal:    data.Subtotal(),
	}, nil
}

type fakeReport struct{ calls int }

func (r *fakeReport) GenerateRequestsReport(_ entity.RequestStatus, _ *entity.InvoiceRequestsPage, _ entity.SenderProfile) ([]byte, error) {
	r.calls++
	return []byte("%PDF-report"), nil
}

type fakeSaver struct{ saved []string }

func (s *fakeSaver) Save(doc *entity.RenderedDocument) (string, error) {
	s.saved = append(s.saved, doc.Filename)
	return "/tmp/" + doc.Filename, nil
}

type memEvents struct {
	list []*entity.DocumentEvent
}

func (m *memEvents) Record(_ context.Context, e *entity.DocumentEvent) error {
	m.list = append(m.list, e)
	return nil
}

// ListByUser más recientes primero, como la implementación real.
func (m *memEvents) ListByUser(_ context.Context, userID string, limit int) ([]*entity.DocumentEvent, error) {
	var out []*entity.DocumentEvent
	for i := len(m.list) - 1; i >= 0 && len(out) < limit; i-- {
		if m.list[i].UserID == userID {
			out = append(out, m.list[i])
		}
	}
	return out, nil
}

func (m *memEvents) actions() []string {
	out := make([]string, 0, len(m.list))
	for _, e := range m.list {
		out = append(out, e.Action)
	}
	return out
}

type fakeProfiles struct{ err error }

func (p fakeProfiles) Profile(context.Context, string) (entity.SenderProfile, error) {
	if p.err != nil {
		return entity.SenderProfile{}, p.err
	}
	return entity.SenderProfile{APIKey: "Key abc", CompanyName: "Acme"}, nil
}

type fixture struct {
	uc      *invoicing.UseCase
	seller  *fakeSeller
	builder *fakeBuilder
	report  *fakeReport
	saver   *fakeSaver
	events  *memEvents
}

func newFixture(profiles fakeProfiles, opts invoicing.Options) *fixture {
	f := &fixture{
		seller: &fakeSeller{invoice: &entity.InvoiceData{
			OrderNumber:  555,
			CustomerName: "Bob",
			InvoiceItems: []entity.InvoiceItem{
				{Total: decimal.RequireFromString("100")},
				{Total: decimal.RequireFromString("49.995")},
			},
		}},
		builder: &fakeBuilder{},
		report:  &fakeReport{},
		saver:   &fakeSaver{},
		events:  &memEvents{},
	}
	f.uc = invoicing.NewUseCase(f.seller, f.builder, f.report, f.saver, f.events, profiles, logger.Nop(), opts)
	return f
}

func requestsPage(n, total int) *entity.InvoiceRequestsPage {
	reqs := make([]entity.InvoiceRequest, 0, n)
	for i := 1; i <= n; i++ {
		reqs = append(reqs, entity.InvoiceRequest{
			RequestID: int64(i),
			CreatedAt: time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	return &entity.InvoiceRequestsPage{Requests: reqs, PageSummary: entity.PageSummary{Total: total}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Upload
// ──────────────────────────────────────────────────────────────────────────────

func TestUploadInvoice_SiempreRegeneraConLaNotaActual(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	ctx := context.Background()

	_, err := f.uc.RenderInvoice(ctx, "u1", "77", "vieja")
	require.NoError(t, err)

	out, err := f.uc.UploadInvoice(ctx, "u1", 77, "nueva")
	require.NoError(t, err)

	assert.True(t, out.Uploaded)
	assert.Equal(t, int64(77), out.RequestID)
	assert.Equal(t, "invoice-555-X.pdf", out.Filename)
	assert.Equal(t, []string{"vieja", "nueva"}, f.builder.notes)
	require.Len(t, f.seller.uploadedPDF, 1)
	assert.Equal(t, "pdf:nueva", string(f.seller.uploadedPDF[0]))
	assert.Equal(t, []string{"77", "77"}, f.seller.fetched)
	assert.Equal(t, []string{entity.DocumentActionDownloaded, entity.DocumentActionUploaded}, f.events.actions())

	up := f.events.list[1]
	require.NotNil(t, up.RequestID)
	assert.Equal(t, int64(77), *up.RequestID)
	assert.Equal(t, "149.995", up.Subtotal.String())
}

func TestUploadInvoice_ConfiguracionIncompleta(t *testing.T) {
	f := newFixture(fakeProfiles{err: domain.ErrSettingsIncomplete}, invoicing.Options{})

	_, err := f.uc.UploadInvoice(context.Background(), "u1", 77, "")

	assert.True(t, errors.Is(err, domain.ErrSettingsIncomplete))
	assert.Empty(t, f.seller.fetched)
	assert.Empty(t, f.builder.notes)
}

func TestUploadInvoice_ErrorDeSubida(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	f.seller.uploadErr = &domain.UploadError{Reason: "Invoice already uploaded", Status: 422}

	_, err := f.uc.UploadInvoice(context.Background(), "u1", 77, "n")

	var uErr *domain.UploadError
	require.True(t, errors.As(err, &uErr))
	assert.Equal(t, "Invoice already uploaded", uErr.Reason)
	assert.Empty(t, f.events.list, "sin subida exitosa no hay evento")
}

func TestUploadInvoice_RequestIDInvalido(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	_, err := f.uc.UploadInvoice(context.Background(), "u1", 0, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Render / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestRenderInvoice_GuardaCopiaLocal(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{SaveLocal: true})

	doc, err := f.uc.RenderInvoice(context.Background(), "u1", "555", "")
	require.NoError(t, err)

	assert.Equal(t, []string{doc.Filename}, f.saver.saved)
	assert.Equal(t, "Key abc", f.seller.keys[0])
}

func TestRenderInvoice_SinCopiaLocalPorDefecto(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})

	_, err := f.uc.RenderInvoice(context.Background(), "u1", "555", "")
	require.NoError(t, err)
	assert.Empty(t, f.saver.saved)
}

func TestGetInvoice_RegistraVista(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})

	data, err := f.uc.GetInvoice(context.Background(), "u1", " 555 ")
	require.NoError(t, err)
	assert.Equal(t, int64(555), data.OrderNumber)
	assert.Equal(t, []string{"555"}, f.seller.fetched)
	assert.Equal(t, []string{entity.DocumentActionViewed}, f.events.actions())
}

func TestGetInvoice_FetchErrorSinEvento(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	f.seller.fetchErr = &domain.FetchError{Resource: "invoice", Status: 500, Err: errors.New("boom")}

	_, err := f.uc.GetInvoice(context.Background(), "u1", "555")

	var fErr *domain.FetchError
	require.True(t, errors.As(err, &fErr))
	assert.Empty(t, f.events.list)
}

func TestGetInvoice_NumeroVacio(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	_, err := f.uc.GetInvoice(context.Background(), "u1", "  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, f.seller.fetched)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestListRequests_PaginaLocal(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	f.seller.requests = requestsPage(25, 40)

	_, err := f.uc.GetInvoice(context.Background(), "u1", "22")
	require.NoError(t, err)

	out, err := f.uc.ListRequests(context.Background(), "u1", "open", 3)
	require.NoError(t, err)

	assert.Equal(t, "open", out.Status)
	assert.Equal(t, 40, out.Total)
	assert.Equal(t, 25, out.Fetched)
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 3, out.TotalPages)
	assert.Equal(t, []int{1, 2, 3}, out.Pages)
	assert.Equal(t, 21, out.From)
	assert.Equal(t, 25, out.To)
	require.Len(t, out.Requests, 5)

	assert.Equal(t, int64(22), out.Requests[1].RequestID)
	assert.True(t, out.Requests[1].Viewed)
	assert.False(t, out.Requests[0].Viewed)
	assert.Equal(t, "https://sellers.takealot.com/sales/invoice/21", out.Requests[0].SellerURL)
}

func TestListRequests_Vacio(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	f.seller.requests = requestsPage(0, 0)

	out, err := f.uc.ListRequests(context.Background(), "u1", "closed", 1)
	require.NoError(t, err)
	assert.Empty(t, out.Requests)
	assert.Equal(t, 0, out.From)
	assert.Equal(t, 1, out.TotalPages)
}

func TestListRequests_EstadoInvalido(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	_, err := f.uc.ListRequests(context.Background(), "u1", "pending", 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, f.seller.keys)
}

func TestRequestsReport(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	f.seller.requests = requestsPage(3, 3)

	out, name, err := f.uc.RequestsReport(context.Background(), "u1", "closed")
	require.NoError(t, err)
	assert.Equal(t, "invoice-requests-closed.pdf", name)
	assert.NotEmpty(t, out)
	assert.Equal(t, 1, f.report.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actividad
// ──────────────────────────────────────────────────────────────────────────────

func TestActivity_AgrupaSinRepetidos(t *testing.T) {
	f := newFixture(fakeProfiles{}, invoicing.Options{})
	ctx := context.Background()

	_, _ = f.uc.GetInvoice(ctx, "u1", "10")
	_, _ = f.uc.GetInvoice(ctx, "u1", "11")
	_, _ = f.uc.GetInvoice(ctx, "u1", "10")
	_, _ = f.uc.RenderInvoice(ctx, "u1", "11", "")
	_, _ = f.uc.GetInvoice(ctx, "u2", "99")

	out, err := f.uc.Activity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, out.Viewed)
	assert.Equal(t, []int64{11}, out.Downloaded)
	assert.Empty(t, out.Uploaded)
}
