package entity

import "time"

// SenderProfile datos de la empresa emisora: membrete del PDF y credencial de Takealot.
// APIKey siempre está normalizado con el prefijo "Key ".
type SenderProfile struct {
	APIKey             string
	CompanyName        string
	TradingName        string
	RegistrationNumber string
	Address            string // multilínea
}

// UserSettings registro persistido por usuario (una fila por user_id).
type UserSettings struct {
	UserID    string
	Profile   SenderProfile
	CreatedAt time.Time
	UpdatedAt time.Time
}
