package setting

import (
	"context"
	"log/slog"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
)

type Store interface {
	Load(ctx context.Context, key string, dst interface{}, defaults interface{}) error
	Save(ctx context.Context, key string, value interface{}) error
}

type Service struct {
	store    Store
	defaults Settings
	logger   *slog.Logger
}

func NewService(store Store, defaults Settings, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

func (s *Service) Defaults() Settings {
	return s.defaults
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	var settings Settings
	if err := s.store.Load(ctx, kvstore.KeySettings, &settings, s.defaults); err != nil {
		s.logger.Error("failed to load settings", "error", err)
		return Settings{}, internal.NewInternalError("failed to load settings", err)
	}
	return settings, nil
}

func (s *Service) Update(ctx context.Context, dto SettingsDTO) (Settings, error) {
	dto.Normalize()
	if dto.Theme == "" {
		dto.Theme = ThemeLight
	}
	if err := dto.Validate(); err != nil {
		return Settings{}, err
	}

	settings := Settings(dto)
	if err := s.Replace(ctx, settings); err != nil {
		return Settings{}, err
	}

	s.logger.Info("settings updated", "company_name", settings.CompanyName, "currency", settings.Currency)
	return settings, nil
}

// Replace stores settings as-is; used by seeding.
func (s *Service) Replace(ctx context.Context, settings Settings) error {
	if err := s.store.Save(ctx, kvstore.KeySettings, settings); err != nil {
		s.logger.Error("failed to save settings", "error", err)
		return internal.NewInternalError("failed to save settings", err)
	}
	return nil
}
