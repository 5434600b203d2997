package dto

import "time"

// SettingsRequest formulario de configuración del vendedor. La key puede venir con o sin "Key ".
type SettingsRequest struct {
	APIKey             string `json:"api_key"`
	CompanyName        string `json:"company_name"`
	TradingName        string `json:"trading_name"`
	RegistrationNumber string `json:"registration_number"`
	Address            string `json:"address"`
}

// SettingsResponse configuración guardada; APIKey sin el prefijo "Key ".
// Complete es false cuando el usuario todavía no guardó un perfil válido.
type SettingsResponse struct {
	APIKey             string     `json:"api_key"`
	CompanyName        string     `json:"company_name"`
	TradingName        string     `json:"trading_name"`
	RegistrationNumber string     `json:"registration_number"`
	Address            string     `json:"address"`
	Complete           bool       `json:"complete"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}
