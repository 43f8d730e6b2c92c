package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	userDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/user"
)

type Repository interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to check username", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateUsername
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	u := &User{
		ID:           uuid.NewString(),
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         dto.Role,
		Email:        dto.Email,
		FullName:     dto.FullName,
		Department:   dto.Department,
		Active:       true,
		CreatedDate:  now,
		UpdatedAt:    now,
	}
	if dto.Active != nil {
		u.Active = *dto.Active
	}

	if err := s.repo.Create(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", u.Username)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	row, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		s.logger.Error("failed to get user by username", "error", err)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateUserDTO) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	wasActiveAdmin := u.IsActiveAdmin()
	if role := strings.ToLower(strings.TrimSpace(dto.Role)); role != "" {
		u.Role = role
	}
	if dto.Active != nil {
		u.Active = *dto.Active
	}
	if wasActiveAdmin && !u.IsActiveAdmin() {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	u.Email = strings.TrimSpace(dto.Email)
	u.FullName = strings.TrimSpace(dto.FullName)
	u.Department = strings.TrimSpace(dto.Department)
	if dto.Password != "" {
		hash, err := HashPassword(dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}
	return u, nil
}

// Delete removes the user unless it is the last active admin.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.IsActiveAdmin() {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id, "username", u.Username)
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, id string, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !u.CheckPassword(dto.CurrentPassword) {
		return internal.ErrInvalidCredentials
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to change password", "error", err, "user_id", id)
		return internal.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", id)
	return nil
}

func (s *Service) ensureAnotherAdmin(ctx context.Context) error {
	count, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to count admins", "error", err)
		return internal.NewInternalError("failed to count admins", err)
	}
	if count <= 1 {
		return internal.ErrLastAdmin
	}
	return nil
}
