package expense

import (
	"sort"
	"strings"
	"time"

	expenseDatamodel "github.com/beledshul/sponsorship/internal/core/datamodel/expense"
	"github.com/beledshul/sponsorship/internal/hebrew"
)

// MortgageName is pinned to the top of the catalog regardless of position.
const MortgageName = "Mortgage Payment"

type Expense struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	AmountCents      int64            `json:"amount_cents"`
	IsHighPriority   bool             `json:"is_high_priority"`
	IsFlexible       bool             `json:"is_flexible"`
	SeasonalAmounts  map[string]int64 `json:"seasonal_amounts,omitempty"`
	HasSpecialMonths bool             `json:"has_special_months"`
	SpecialMonths    []int            `json:"special_months,omitempty"`
	MonthlyAmounts   map[int]int64    `json:"monthly_amounts,omitempty"`
	Position         int              `json:"position"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ResolveAmount returns the effective amount for one month. Precedence:
// explicit per-month override, then seasonal override when the expense is
// flexible, then the base amount. A zero per-month entry does not count as
// an override (the original treated 0 as absent). Total over all inputs.
func (e *Expense) ResolveAmount(monthIndex int) int64 {
	if amt, ok := e.MonthlyAmounts[monthIndex]; ok && amt != 0 {
		return amt
	}
	if e.IsFlexible && len(e.SeasonalAmounts) > 0 {
		season := string(hebrew.SeasonForMonth(monthIndex))
		if amt, ok := e.SeasonalAmounts[season]; ok {
			return amt
		}
	}
	return e.AmountCents
}

// MonthAmounts resolves all twelve months at once for catalog listings.
func (e *Expense) MonthAmounts() [12]int64 {
	var amounts [12]int64
	for m := 0; m < 12; m++ {
		amounts[m] = e.ResolveAmount(m)
	}
	return amounts
}

// AnnualAmount is the expense's full-year budget.
func (e *Expense) AnnualAmount() int64 {
	var total int64
	for m := 0; m < 12; m++ {
		total += e.ResolveAmount(m)
	}
	return total
}

// DescriptionLines splits the free-text description: the first line is the
// primary description, remaining non-empty lines are emphasized notes.
func (e *Expense) DescriptionLines() (primary string, notes []string) {
	lines := strings.Split(e.Description, "\n")
	if len(lines) == 0 {
		return "", nil
	}
	primary = strings.TrimSpace(lines[0])
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			notes = append(notes, trimmed)
		}
	}
	return primary, notes
}

// SortCatalog orders expenses for display: the mortgage first, then by
// position, then by name for a stable tiebreak.
func SortCatalog(expenses []*Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Name == MortgageName {
			return expenses[j].Name != MortgageName
		}
		if expenses[j].Name == MortgageName {
			return false
		}
		if expenses[i].Position != expenses[j].Position {
			return expenses[i].Position < expenses[j].Position
		}
		return expenses[i].Name < expenses[j].Name
	})
}

// AnnualTotal sums the full-year budget across the whole catalog.
func AnnualTotal(expenses []*Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.AnnualAmount()
	}
	return total
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		AmountCents:      e.AmountCents,
		IsHighPriority:   e.IsHighPriority,
		IsFlexible:       e.IsFlexible,
		SeasonalAmounts:  e.SeasonalAmounts,
		HasSpecialMonths: e.HasSpecialMonths,
		SpecialMonths:    e.SpecialMonths,
		MonthlyAmounts:   e.MonthlyAmounts,
		Position:         e.Position,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		AmountCents:      e.AmountCents,
		IsHighPriority:   e.IsHighPriority,
		IsFlexible:       e.IsFlexible,
		SeasonalAmounts:  e.SeasonalAmounts,
		HasSpecialMonths: e.HasSpecialMonths,
		SpecialMonths:    e.SpecialMonths,
		MonthlyAmounts:   e.MonthlyAmounts,
		Position:         e.Position,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
