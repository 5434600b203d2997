package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración del vendedor, una fila por usuario.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get devuelve (nil, nil) si el usuario no tiene configuración guardada.
func (r *SettingsRepo) Get(ctx context.Context, userID string) (*entity.UserSettings, error) {
	query := `
		SELECT user_id, api_key, company_name, trading_name, registration_number, address, created_at, updated_at
		FROM user_settings WHERE user_id = $1`
	var s entity.UserSettings
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Profile.APIKey, &s.Profile.CompanyName, &s.Profile.TradingName,
		&s.Profile.RegistrationNumber, &s.Profile.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	return &s, nil
}

// Upsert inserta o reemplaza la configuración; created_at se conserva en updates.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.UserSettings) error {
	query := `
		INSERT INTO user_settings
			(user_id, api_key, company_name, trading_name, registration_number, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			api_key = EXCLUDED.api_key,
			company_name = EXCLUDED.company_name,
			trading_name = EXCLUDED.trading_name,
			registration_number = EXCLUDED.registration_number,
			address = EXCLUDED.address,
			updated_at = EXCLUDED.updated_at`
	p := s.Profile
	_, err := r.pool.Exec(ctx, query,
		s.UserID, p.APIKey, p.CompanyName, p.TradingName, p.RegistrationNumber, p.Address,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}
	return nil
}
