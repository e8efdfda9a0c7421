package expense

import (
	"errors"

	"github.com/beledshul/sponsorship/internal/hebrew"
)

// ErrNotFound is the repository-level miss; services translate it into the
// HTTP-aware catalog error.
var ErrNotFound = errors.New("expense not found")

var validSeasons = map[string]bool{
	string(hebrew.SeasonWinter): true,
	string(hebrew.SeasonSpring): true,
	string(hebrew.SeasonSummer): true,
	string(hebrew.SeasonFall):   true,
}

// CreateExpenseDTO is the admin payload for a new catalog entry.
type CreateExpenseDTO struct {
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
}

func (dto CreateExpenseDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.AmountCents <= 0 {
		return errors.New("amount must be greater than 0")
	}
	for season := range dto.SeasonalAmounts {
		if !validSeasons[season] {
			return errors.New("seasonal amounts may only use winter, spring, summer or fall")
		}
	}
	for month := range dto.MonthlyAmounts {
		if !hebrew.ValidMonth(month) {
			return errors.New("monthly amount month index must be between 0 and 11")
		}
	}
	for _, month := range dto.SpecialMonths {
		if !hebrew.ValidMonth(month) {
			return errors.New("special month index must be between 0 and 11")
		}
	}
	if dto.HasSpecialMonths && len(dto.SpecialMonths) == 0 {
		return errors.New("special months list is required when has_special_months is set")
	}
	return nil
}

// UpdateExpenseDTO patches an existing entry; nil fields are left unchanged.
type UpdateExpenseDTO struct {
	Name             *string           `json:"name,omitempty"`
	Description      *string           `json:"description,omitempty"`
	AmountCents      *int64            `json:"amount_cents,omitempty"`
	IsHighPriority   *bool             `json:"is_high_priority,omitempty"`
	IsFlexible       *bool             `json:"is_flexible,omitempty"`
	SeasonalAmounts  *map[string]int64 `json:"seasonal_amounts,omitempty"`
	HasSpecialMonths *bool             `json:"has_special_months,omitempty"`
	SpecialMonths    *[]int            `json:"special_months,omitempty"`
	MonthlyAmounts   *map[int]int64    `json:"monthly_amounts,omitempty"`
	Position         *int              `json:"position,omitempty"`
}

func (dto UpdateExpenseDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	if dto.AmountCents != nil && *dto.AmountCents <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if dto.SeasonalAmounts != nil {
		for season := range *dto.SeasonalAmounts {
			if !validSeasons[season] {
				return errors.New("seasonal amounts may only use winter, spring, summer or fall")
			}
		}
	}
	if dto.MonthlyAmounts != nil {
		for month := range *dto.MonthlyAmounts {
			if !hebrew.ValidMonth(month) {
				return errors.New("monthly amount month index must be between 0 and 11")
			}
		}
	}
	if dto.SpecialMonths != nil {
		for _, month := range *dto.SpecialMonths {
			if !hebrew.ValidMonth(month) {
				return errors.New("special month index must be between 0 and 11")
			}
		}
	}
	return nil
}

func (dto UpdateExpenseDTO) Apply(e *Expense) {
	if dto.Name != nil {
		e.Name = *dto.Name
	}
	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.AmountCents != nil {
		e.AmountCents = *dto.AmountCents
	}
	if dto.IsHighPriority != nil {
		e.IsHighPriority = *dto.IsHighPriority
	}
	if dto.IsFlexible != nil {
		e.IsFlexible = *dto.IsFlexible
	}
	if dto.SeasonalAmounts != nil {
		e.SeasonalAmounts = *dto.SeasonalAmounts
	}
	if dto.HasSpecialMonths != nil {
		e.HasSpecialMonths = *dto.HasSpecialMonths
	}
	if dto.SpecialMonths != nil {
		e.SpecialMonths = *dto.SpecialMonths
	}
	if dto.MonthlyAmounts != nil {
		e.MonthlyAmounts = *dto.MonthlyAmounts
	}
	if dto.Position != nil {
		e.Position = *dto.Position
	}
}

// EntryProgress is the sponsored-vs-budget state of one catalog entry for
// the slot the listing was queried with. Same clamping as the per-slot
// progress endpoint: percentage capped at 100, remaining never negative.
type EntryProgress struct {
	TotalCents         int64   `json:"total_cents"`
	ExpenseAmountCents int64   `json:"expense_amount_cents"`
	RemainingCents     int64   `json:"remaining_cents"`
	Percentage         float64 `json:"percentage"`
}

func NewEntryProgress(budget, total int64) EntryProgress {
	var percentage float64
	if budget > 0 {
		percentage = float64(total) / float64(budget) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	remaining := budget - total
	if remaining < 0 {
		remaining = 0
	}

	return EntryProgress{
		TotalCents:         total,
		ExpenseAmountCents: budget,
		RemainingCents:     remaining,
		Percentage:         percentage,
	}
}

// CatalogEntryResponse is one row of the member-facing catalog listing.
// Progress is only populated when the listing was queried for a slot.
type CatalogEntryResponse struct {
	*Expense
	PrimaryDescription string         `json:"primary_description"`
	DescriptionNotes   []string       `json:"description_notes,omitempty"`
	ResolvedAmounts    [12]int64      `json:"resolved_amounts"`
	AnnualAmountCents  int64          `json:"annual_amount_cents"`
	Progress           *EntryProgress `json:"progress,omitempty"`
}

func NewCatalogEntryResponse(e *Expense) CatalogEntryResponse {
	primary, notes := e.DescriptionLines()
	return CatalogEntryResponse{
		Expense:            e,
		PrimaryDescription: primary,
		DescriptionNotes:   notes,
		ResolvedAmounts:    e.MonthAmounts(),
		AnnualAmountCents:  e.AnnualAmount(),
	}
}

// SummaryResponse reports the catalog-wide budget aggregates.
type SummaryResponse struct {
	Year              int   `json:"year"`
	AnnualTotalCents  int64 `json:"annual_total_cents"`
	CurrentMonthIndex int   `json:"current_month_index"`
	MonthBudgetCents  int64 `json:"month_budget_cents"`
	MonthSponsored    int64 `json:"month_sponsored_cents"`
	MonthPercentage   int   `json:"month_percentage"`
}
