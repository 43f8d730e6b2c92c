package setting

import (
	"sort"

	"github.com/haingladys/jsdc-accounting/internal"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	Themes      = []string{ThemeLight, ThemeDark}
	DateFormats = []string{"DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD"}
)

// Settings is the company profile stored under the appSettings key.
type Settings struct {
	CompanyName        string `json:"company_name"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	GSTNumber          string `json:"gst_number"`
	Currency           string `json:"currency"`
	FinancialYearStart int    `json:"financial_year_start"`
	DateFormat         string `json:"date_format"`
	// WorkingDays holds time.Weekday values, Sunday = 0.
	WorkingDays []int  `json:"working_days"`
	Theme       string `json:"theme"`
}

// Defaults builds the settings used until an admin saves their own.
func Defaults(app internal.AppConfig) Settings {
	currency := app.Currency
	if currency == "" {
		currency = "INR"
	}
	return Settings{
		CompanyName:        app.CompanyName,
		Currency:           currency,
		FinancialYearStart: 4,
		DateFormat:         DateFormats[0],
		WorkingDays:        []int{1, 2, 3, 4, 5, 6},
		Theme:              ThemeLight,
	}
}

// normalizeWeekdays sorts and de-duplicates the working days in place.
func normalizeWeekdays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
