package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/domain/repository"
)

var _ repository.DocumentEventRepository = (*DocumentEventRepo)(nil)

// DocumentEventRepo historial de vistas, descargas y subidas por usuario.
type DocumentEventRepo struct {
	pool *pgxpool.Pool
}

// NewDocumentEventRepository construye el adaptador.
func NewDocumentEventRepository(pool *pgxpool.Pool) *DocumentEventRepo {
	return &DocumentEventRepo{pool: pool}
}

// Record inserta un evento. subtotal es NUMERIC(14,2) (codec pgx-shopspring-decimal).
func (r *DocumentEventRepo) Record(ctx context.Context, e *entity.DocumentEvent) error {
	query := `
		INSERT INTO document_events (id, user_id, order_number, request_id, action, filename, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		e.ID, e.UserID, e.OrderNumber, e.RequestID, e.Action, e.Filename, e.Subtotal, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document event: %w", err)
	}
	return nil
}

// ListByUser últimos eventos del usuario, más recientes primero.
func (r *DocumentEventRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.DocumentEvent, error) {
	query := `
		SELECT id, user_id, order_number, request_id, action, filename, subtotal, created_at
		FROM document_events WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list document events: %w", err)
	}
	defer rows.Close()

	var list []*entity.DocumentEvent
	for rows.Next() {
		var e entity.DocumentEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrderNumber, &e.RequestID, &e.Action, &e.Filename, &e.Subtotal, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
