package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
)

// Store is the kvstore slice the category lists live in.
type Store interface {
	Load(ctx context.Context, key string, dst interface{}, defaults interface{}) error
	Save(ctx context.Context, key string, value interface{}) error
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, kind Kind) ([]string, error) {
	var list []string
	if err := s.store.Load(ctx, kind.StorageKey(), &list, kind.Defaults()); err != nil {
		s.logger.Error("failed to load categories", "kind", kind, "error", err)
		return nil, internal.NewInternalError("failed to load categories", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// Replace stores the whole list, used by backup import and seeding.
func (s *Service) Replace(ctx context.Context, kind Kind, list []string) error {
	if list == nil {
		list = []string{}
	}
	if err := s.store.Save(ctx, kind.StorageKey(), list); err != nil {
		return internal.NewInternalError("failed to save categories", err)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, kind Kind, dto CategoryDTO) ([]string, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)

	list, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if indexOf(list, name) >= 0 {
		s.logger.Warn("duplicate category rejected", "kind", kind, "name", name)
		return nil, internal.ErrDuplicateCategory
	}

	list = append(list, name)
	if err := s.Replace(ctx, kind, list); err != nil {
		return nil, err
	}

	s.logger.Info("category added", "kind", kind, "name", name)
	return list, nil
}

func (s *Service) Rename(ctx context.Context, kind Kind, oldName string, dto CategoryDTO) ([]string, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	newName := strings.TrimSpace(dto.Name)

	list, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	i := indexOf(list, oldName)
	if i < 0 {
		return nil, internal.ErrCategoryNotFound
	}
	if j := indexOf(list, newName); j >= 0 && j != i {
		return nil, internal.ErrDuplicateCategory
	}

	list[i] = newName
	if err := s.Replace(ctx, kind, list); err != nil {
		return nil, err
	}

	s.logger.Info("category renamed", "kind", kind, "from", oldName, "to", newName)
	return list, nil
}

func (s *Service) Remove(ctx context.Context, kind Kind, name string) ([]string, error) {
	list, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	i := indexOf(list, name)
	if i < 0 {
		return nil, internal.ErrCategoryNotFound
	}

	list = append(list[:i], list[i+1:]...)
	if err := s.Replace(ctx, kind, list); err != nil {
		return nil, err
	}

	s.logger.Info("category removed", "kind", kind, "name", name)
	return list, nil
}

func (s *Service) IsValidCategory(ctx context.Context, kind Kind, name string) bool {
	list, err := s.List(ctx, kind)
	if err != nil {
		s.logger.Warn("error checking category validity", "kind", kind, "name", name, "error", err)
		return false
	}
	return indexOf(list, strings.TrimSpace(name)) >= 0
}
