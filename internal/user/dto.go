package user

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
)

const minPasswordLength = 8

type CreateUserDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Active     *bool  `json:"active,omitempty"`
}

func (d *CreateUserDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
	d.Email = strings.TrimSpace(d.Email)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Department = strings.TrimSpace(d.Department)
	if d.Role == "" {
		d.Role = internal.RoleUser
	}
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(64)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("role", d.Role).OneOf(internal.ErrCodeValidationFailed, Roles...)
	v.Field("email", d.Email).MaxLength(200)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO changes profile fields; an empty Password keeps the current one.
type UpdateUserDTO struct {
	Role       string `json:"role"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Active     *bool  `json:"active,omitempty"`
	Password   string `json:"password,omitempty"`
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role", strings.ToLower(strings.TrimSpace(d.Role))).OneOf(internal.ErrCodeValidationFailed, Roles...)
	v.Field("email", d.Email).MaxLength(200)
	if d.Password != "" {
		v.Field("password", d.Password).MinLength(minPasswordLength)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(minPasswordLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
