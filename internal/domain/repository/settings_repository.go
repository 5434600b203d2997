package repository

import (
	"context"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// SettingsRepository persiste la configuración del vendedor por usuario.
// Get devuelve (nil, nil) si el usuario aún no guardó nada.
type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserSettings, error)
	Upsert(ctx context.Context, settings *entity.UserSettings) error
}
