package repository

import (
	"context"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// DocumentEventRepository registra la actividad sobre facturas (vista, descarga, subida).
type DocumentEventRepository interface {
	Record(ctx context.Context, event *entity.DocumentEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.DocumentEvent, error)
}
