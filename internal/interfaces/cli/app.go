// Package cli expone los casos de uso de facturación como línea de comandos
// (invoicectl). El perfil del vendedor llega por flags o variables de entorno.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	ucli "github.com/urfave/cli/v2"

	"github.com/jhoicas/takealot-invoicer/internal/application/invoicing"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/credential"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/domain/settings"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/pdf"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/storage"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/takealot"
	"github.com/jhoicas/takealot-invoicer/pkg/config"
	"github.com/jhoicas/takealot-invoicer/pkg/logger"
)

// cliUser identifica los eventos de la CLI; no hay usuarios registrados.
const cliUser = "cli"

// Env variables leídas por los flags globales.
const (
	EnvAPIKey             = "TAKEALOT_API_KEY"
	EnvCompanyName        = "SENDER_COMPANY_NAME"
	EnvTradingName        = "SENDER_TRADING_NAME"
	EnvRegistrationNumber = "SENDER_REGISTRATION_NUMBER"
	EnvAddress            = "SENDER_ADDRESS"
)

// NewApp construye la aplicación. Los valores por defecto de los flags del relay,
// la API y el PDF salen de cfg; fs recibe los PDF de "pdf" (nil = disco).
func NewApp(cfg *config.Config, out io.Writer, fs afero.Fs) *ucli.App {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ucli.App{
		Name:      "invoicectl",
		Usage:     "facturas de vendedor de Takealot desde la terminal",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "api-key", EnvVars: []string{EnvAPIKey}, Usage: "API key del vendedor (con o sin \"Key \")"},
			&ucli.StringFlag{Name: "company-name", EnvVars: []string{EnvCompanyName}},
			&ucli.StringFlag{Name: "trading-name", EnvVars: []string{EnvTradingName}},
			&ucli.StringFlag{Name: "registration-number", EnvVars: []string{EnvRegistrationNumber}},
			&ucli.StringFlag{Name: "address", EnvVars: []string{EnvAddress}, Usage: "dirección multilínea (\\n)"},
			&ucli.StringFlag{Name: "base-url", Value: cfg.Seller.BaseURL},
			&ucli.StringFlag{Name: "relay-url", Value: cfg.Seller.RelayURL},
			&ucli.StringFlag{Name: "relay-api-key", Value: cfg.Seller.RelayAPIKey},
			&ucli.StringFlag{Name: "timezone", Value: cfg.PDF.TimeZone},
			&ucli.StringFlag{Name: "date-layout", Value: cfg.PDF.DateLayout, Usage: "layout Go de la fecha impresa"},
			&ucli.StringFlag{Name: "log-level", EnvVars: []string{"LOG_LEVEL"}, Value: "warn"},
		},
		Commands: []*ucli.Command{
			{
				Name:      "fetch",
				Usage:     "muestra la factura como JSON",
				ArgsUsage: "<number>",
				Action: func(c *ucli.Context) error {
					number, err := requireArg(c, "number")
					if err != nil {
						return err
					}
					uc, err := newUseCase(c, fs, keyOnly)
					if err != nil {
						return err
					}
					data, err := uc.GetInvoice(c.Context, cliUser, number)
					if err != nil {
						return err
					}
					enc := json.NewEncoder(c.App.Writer)
					enc.SetIndent("", "  ")
					return enc.Encode(data)
				},
			},
			{
				Name:      "list",
				Usage:     "lista las solicitudes de factura",
				ArgsUsage: "<open|closed>",
				Flags:     []ucli.Flag{&ucli.IntFlag{Name: "page", Value: 1}},
				Action: func(c *ucli.Context) error {
					status, err := requireArg(c, "status")
					if err != nil {
						return err
					}
					uc, err := newUseCase(c, fs, keyOnly)
					if err != nil {
						return err
					}
					page, err := uc.ListRequests(c.Context, cliUser, status, c.Int("page"))
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "REQUEST\tCONTEXT\tCREATED\tCLOSED")
					for _, r := range page.Requests {
						fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", r.RequestID, r.ContextID, r.CreatedAt, r.ClosedAt)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
					_, err = fmt.Fprintf(c.App.Writer, "%d-%d de %d (página %d/%d)\n", page.From, page.To, page.Total, page.Page, page.TotalPages)
					return err
				},
			},
			{
				Name:      "pdf",
				Usage:     "genera el PDF de la factura y lo guarda en --out",
				ArgsUsage: "<number>",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "note", Usage: "nota impresa en el bloque de facturación"},
					&ucli.StringFlag{Name: "out", Value: cfg.PDF.OutputDir},
				},
				Action: func(c *ucli.Context) error {
					number, err := requireArg(c, "number")
					if err != nil {
						return err
					}
					uc, err := newUseCase(c, fs, fullProfile)
					if err != nil {
						return err
					}
					doc, err := uc.RenderInvoice(c.Context, cliUser, number, c.String("note"))
					if err != nil {
						return err
					}
					path, err := storage.NewFileSaver(fs, c.String("out")).Save(doc)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(c.App.Writer, "%s (fecha %s, subtotal %s)\n", path, doc.InvoiceDate, pdf.FormatCurrency(doc.Subtotal))
					return err
				},
			},
			{
				Name:      "upload",
				Usage:     "regenera el PDF y lo sube a la solicitud",
				ArgsUsage: "<requestId>",
				Flags:     []ucli.Flag{&ucli.StringFlag{Name: "note"}},
				Action: func(c *ucli.Context) error {
					raw, err := requireArg(c, "requestId")
					if err != nil {
						return err
					}
					requestID, err := strconv.ParseInt(raw, 10, 64)
					if err != nil {
						return fmt.Errorf("%w: requestId %q", domain.ErrInvalidInput, raw)
					}
					uc, err := newUseCase(c, fs, fullProfile)
					if err != nil {
						return err
					}
					res, err := uc.UploadInvoice(c.Context, cliUser, requestID, c.String("note"))
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(c.App.Writer, "subido %s a la solicitud %d\n", res.Filename, res.RequestID)
					return err
				},
			},
		},
	}
}

func requireArg(c *ucli.Context, name string) (string, error) {
	if c.NArg() < 1 || c.Args().First() == "" {
		return "", fmt.Errorf("%w: falta el argumento <%s>", domain.ErrInvalidInput, name)
	}
	return c.Args().First(), nil
}

type profileMode int

const (
	keyOnly profileMode = iota
	fullProfile
)

func newUseCase(c *ucli.Context, fs afero.Fs, mode profileMode) (*invoicing.UseCase, error) {
	log := logger.New(logger.Config{Env: "development", Level: c.String("log-level"), Output: c.App.ErrWriter})

	builder, err := pdf.NewInvoiceBuilder(pdf.Config{
		TimeZone:   c.String("timezone"),
		DateLayout: c.String("date-layout"),
	})
	if err != nil {
		return nil, err
	}
	seller := takealot.NewClient(takealot.Config{
		BaseURL:     c.String("base-url"),
		RelayURL:    c.String("relay-url"),
		RelayAPIKey: c.String("relay-api-key"),
	}, nil)

	profiles := flagProfile{
		mode: mode,
		draft: settings.Draft{
			APIKey:             c.String("api-key"),
			CompanyName:        c.String("company-name"),
			TradingName:        c.String("trading-name"),
			RegistrationNumber: c.String("registration-number"),
			Address:            strings.ReplaceAll(c.String("address"), `\n`, "\n"),
		},
	}
	return invoicing.NewUseCase(seller, builder, pdf.NewRequestsReport(), storage.NewFileSaver(fs, ""),
		discardEvents{}, profiles, log, invoicing.Options{}), nil
}

// flagProfile perfil armado con los flags. fetch y list solo necesitan la key.
type flagProfile struct {
	mode  profileMode
	draft settings.Draft
}

func (p flagProfile) Profile(context.Context, string) (entity.SenderProfile, error) {
	if p.mode == keyOnly {
		key := credential.Strip(p.draft.APIKey)
		if key == "" {
			return entity.SenderProfile{}, domain.ErrMissingCredential
		}
		return entity.SenderProfile{APIKey: credential.Normalize(key)}, nil
	}
	switch st := settings.Validate(p.draft).(type) {
	case settings.Complete:
		return st.Profile, nil
	case settings.Incomplete:
		return entity.SenderProfile{}, st.Err()
	}
	return entity.SenderProfile{}, domain.ErrSettingsIncomplete
}

// discardEvents la CLI no guarda actividad.
type discardEvents struct{}

func (discardEvents) Record(context.Context, *entity.DocumentEvent) error { return nil }

func (discardEvents) ListByUser(context.Context, string, int) ([]*entity.DocumentEvent, error) {
	return nil, nil
}
