package category

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
)

// Kind names one of the two category lists.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindExpense  Kind = "expense"
)

var (
	DefaultPurchaseCategories = []string{
		"Raw Materials",
		"Office Supplies",
		"Equipment",
		"Inventory",
		"Packaging",
		"Other",
	}
	DefaultExpenseCategories = []string{
		"Rent",
		"Utilities",
		"Salaries",
		"Transport",
		"Maintenance",
		"Marketing",
		"Office Expenses",
		"Other",
	}
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindPurchase, "purchases":
		return KindPurchase, nil
	case KindExpense, "expenses":
		return KindExpense, nil
	}
	return "", internal.ErrUnknownCategory
}

func (k Kind) StorageKey() string {
	if k == KindPurchase {
		return kvstore.KeyPurchaseCategories
	}
	return kvstore.KeyExpenseCategories
}

func (k Kind) Defaults() []string {
	if k == KindPurchase {
		return DefaultPurchaseCategories
	}
	return DefaultExpenseCategories
}

// indexOf finds name case-insensitively.
func indexOf(list []string, name string) int {
	for i, existing := range list {
		if strings.EqualFold(existing, name) {
			return i
		}
	}
	return -1
}
