package user

import (
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	userDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

var Roles = []string{internal.RoleAdmin, internal.RoleUser}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Department   string    `json:"department"`
	Active       bool      `json:"active"`
	CreatedDate  time.Time `json:"created_date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == internal.RoleAdmin
}

// IsActiveAdmin reports whether the user counts toward the last-admin guard.
func (u *User) IsActiveAdmin() bool {
	return u.Active && u.IsAdmin()
}

// Current is the slim view stored in the request context.
func (u *User) Current() *internal.CurrentUser {
	return &internal.CurrentUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

// CheckPassword compares a plaintext password with the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Email:        u.Email,
		FullName:     u.FullName,
		Department:   u.Department,
		Active:       u.Active,
		CreatedDate:  u.CreatedDate,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Email:        u.Email,
		FullName:     u.FullName,
		Department:   u.Department,
		Active:       u.Active,
		CreatedDate:  u.CreatedDate,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*userDatamodel.User) []*User {
	result := make([]*User, len(rows))
	for i, u := range rows {
		result[i] = FromDataModel(u)
	}
	return result
}
