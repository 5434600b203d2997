// Package settings valida la configuración del vendedor.
//
// Un borrador (Draft) con campos opcionales se valida a un State, que es
// Incomplete (faltan campos) o Complete (perfil listo para firmar PDFs y llamar a la API).
package settings

import (
	"strings"

	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/credential"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// Nombres de campo usados en los errores de validación.
const (
	FieldAPIKey             = "api_key"
	FieldCompanyName        = "company_name"
	FieldTradingName        = "trading_name"
	FieldRegistrationNumber = "registration_number"
	FieldAddress            = "address"
)

// Draft configuración parcial tal como llega del formulario o de la base.
type Draft struct {
	APIKey             string
	CompanyName        string
	TradingName        string
	RegistrationNumber string
	Address            string
}

// State resultado de validar un Draft: Incomplete o Complete.
type State interface {
	isState()
}

// Incomplete faltan campos requeridos (campo -> mensaje).
type Incomplete struct {
	Missing map[string]string
}

// Complete perfil válido con la API key normalizada.
type Complete struct {
	Profile entity.SenderProfile
}

func (Incomplete) isState() {}
func (Complete) isState()   {}

// Err convierte el estado incompleto en un *domain.ValidationError.
func (i Incomplete) Err() error {
	return &domain.ValidationError{Fields: i.Missing}
}

// Validate exige todos los campos (sin espacios) y normaliza la key a "Key <token>".
func Validate(d Draft) State {
	missing := map[string]string{}
	if credential.Strip(d.APIKey) == "" {
		missing[FieldAPIKey] = "la API key es requerida"
	}
	if strings.TrimSpace(d.CompanyName) == "" {
		missing[FieldCompanyName] = "el nombre de la empresa es requerido"
	}
	if strings.TrimSpace(d.TradingName) == "" {
		missing[FieldTradingName] = "el nombre comercial es requerido"
	}
	if strings.TrimSpace(d.RegistrationNumber) == "" {
		missing[FieldRegistrationNumber] = "el número de registro es requerido"
	}
	if strings.TrimSpace(d.Address) == "" {
		missing[FieldAddress] = "la dirección es requerida"
	}
	if len(missing) > 0 {
		return Incomplete{Missing: missing}
	}
	return Complete{Profile: entity.SenderProfile{
		APIKey:             credential.Normalize(d.APIKey),
		CompanyName:        d.CompanyName,
		TradingName:        d.TradingName,
		RegistrationNumber: d.RegistrationNumber,
		Address:            d.Address,
	}}
}

// DraftFromProfile arma el borrador para mostrar en el formulario (key sin prefijo).
func DraftFromProfile(p entity.SenderProfile) Draft {
	return Draft{
		APIKey:             credential.Strip(p.APIKey),
		CompanyName:        p.CompanyName,
		TradingName:        p.TradingName,
		RegistrationNumber: p.RegistrationNumber,
		Address:            p.Address,
	}
}
