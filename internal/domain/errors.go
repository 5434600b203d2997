package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrSettingsIncomplete = errors.New("configuración del vendedor incompleta")
	ErrNoPDF              = errors.New("no hay PDF generado para subir")
	ErrMissingCredential  = errors.New("API key de Takealot no configurada")
)

// FetchError falla de lectura contra la API de Takealot (transporte o status no exitoso).
// Error() expone solo un mensaje genérico; la causa queda en Err para el log.
type FetchError struct {
	Resource string // "invoice" | "invoice_requests"
	Status   int    // 0 si falló el transporte
	Err      error
}

func (e *FetchError) Error() string {
	if e.Resource == "invoice_requests" {
		return "no se pudieron obtener las solicitudes de factura"
	}
	return "no se pudieron obtener los datos de la factura"
}

func (e *FetchError) Unwrap() error { return e.Err }

// UploadError falla al subir el PDF a Takealot. Reason es apto para mostrar al usuario.
type UploadError struct {
	Reason string
	Status int
	Err    error
}

func (e *UploadError) Error() string {
	if e.Reason == "" {
		return "no se pudo subir el PDF"
	}
	return e.Reason
}

func (e *UploadError) Unwrap() error { return e.Err }

// ValidationError campos requeridos ausentes o inválidos (campo -> mensaje).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validación fallida: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
