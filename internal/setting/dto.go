package setting

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
)

type SettingsDTO Settings

func (d *SettingsDTO) Normalize() {
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Address = strings.TrimSpace(d.Address)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.GSTNumber = strings.ToUpper(strings.TrimSpace(d.GSTNumber))
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	d.Theme = strings.ToLower(strings.TrimSpace(d.Theme))
	d.WorkingDays = normalizeWeekdays(d.WorkingDays)
}

func (d SettingsDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("company_name", d.CompanyName).Required().MaxLength(200)
	v.Field("address", d.Address).MaxLength(500)
	v.Field("phone", d.Phone).MaxLength(32)
	v.Field("email", d.Email).Custom(func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return internal.NewValidationFieldError("email", "email is not a valid address", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("gst_number", d.GSTNumber).MaxLength(15)
	v.Field("currency", d.Currency).Required().MinLength(3).MaxLength(3)
	v.Field("financial_year_start", d.FinancialYearStart).
		MinInt(1, internal.ErrCodeInvalidPeriod).
		MaxInt(12, internal.ErrCodeInvalidPeriod)
	v.Field("date_format", d.DateFormat).Required().OneOf(internal.ErrCodeValidationFailed, DateFormats...)
	v.Field("theme", d.Theme).OneOf(internal.ErrCodeValidationFailed, Themes...)
	v.Field("working_days", d.WorkingDays).Custom(func(value interface{}) *internal.AppError {
		days, _ := value.([]int)
		if len(days) == 0 {
			return internal.NewValidationFieldError("working_days", "at least one working day is required", internal.ErrCodeValidationFailed)
		}
		for _, day := range days {
			if day < 0 || day > 6 {
				return internal.NewValidationFieldError("working_days", fmt.Sprintf("%d is not a weekday (0-6)", day), internal.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
