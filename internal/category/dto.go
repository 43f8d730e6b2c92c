package category

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
)

type CategoryDTO struct {
	Name string `json:"name"`
}

func (d CategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(64)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CategoriesResponse struct {
	Kind       Kind     `json:"kind"`
	Categories []string `json:"categories"`
}
