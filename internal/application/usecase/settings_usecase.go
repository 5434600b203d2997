package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/takealot-invoicer/internal/application/dto"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/domain/repository"
	"github.com/jhoicas/takealot-invoicer/internal/domain/settings"
)

// SettingsUseCase lectura y guardado de la configuración del vendedor.
type SettingsUseCase struct {
	repo repository.SettingsRepository
	now  func() time.Time
}

// NewSettingsUseCase construye el caso de uso con el puerto de persistencia.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, now: time.Now}
}

// Get devuelve la configuración guardada con la key sin prefijo.
// Si el usuario no guardó nada, devuelve un formulario vacío con Complete=false.
func (uc *SettingsUseCase) Get(ctx context.Context, userID string) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &dto.SettingsResponse{}, nil
	}
	return toSettingsResponse(s), nil
}

// Save valida el formulario; solo un perfil completo se persiste.
// Un formulario incompleto devuelve *domain.ValidationError con el detalle por campo.
func (uc *SettingsUseCase) Save(ctx context.Context, userID string, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	state := settings.Validate(settings.Draft{
		APIKey:             in.APIKey,
		CompanyName:        in.CompanyName,
		TradingName:        in.TradingName,
		RegistrationNumber: in.RegistrationNumber,
		Address:            in.Address,
	})

	switch st := state.(type) {
	case settings.Incomplete:
		return nil, st.Err()
	case settings.Complete:
		existing, err := uc.repo.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		now := uc.now()
		rec := &entity.UserSettings{UserID: userID, Profile: st.Profile, CreatedAt: now, UpdatedAt: now}
		if existing != nil {
			rec.CreatedAt = existing.CreatedAt
		}
		if err := uc.repo.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		return toSettingsResponse(rec), nil
	}
	return nil, domain.ErrInvalidInput
}

// Profile devuelve el perfil listo para usar; ErrSettingsIncomplete si falta algo.
func (uc *SettingsUseCase) Profile(ctx context.Context, userID string) (entity.SenderProfile, error) {
	s, err := uc.repo.Get(ctx, userID)
	if err != nil {
		return entity.SenderProfile{}, err
	}
	if s == nil {
		return entity.SenderProfile{}, domain.ErrSettingsIncomplete
	}
	complete, ok := settings.Validate(settings.DraftFromProfile(s.Profile)).(settings.Complete)
	if !ok {
		return entity.SenderProfile{}, domain.ErrSettingsIncomplete
	}
	return complete.Profile, nil
}

func toSettingsResponse(s *entity.UserSettings) *dto.SettingsResponse {
	draft := settings.DraftFromProfile(s.Profile)
	_, complete := settings.Validate(draft).(settings.Complete)
	updated := s.UpdatedAt
	return &dto.SettingsResponse{
		APIKey:             draft.APIKey,
		CompanyName:        draft.CompanyName,
		TradingName:        draft.TradingName,
		RegistrationNumber: draft.RegistrationNumber,
		Address:            draft.Address,
		Complete:           complete,
		UpdatedAt:          &updated,
	}
}
