package invoicing

import (
	"context"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// ProfileSource entrega el perfil completo del vendedor (key normalizada incluida).
// Falla con domain.ErrSettingsIncomplete si el usuario no terminó su configuración.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (entity.SenderProfile, error)
}
