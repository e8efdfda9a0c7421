package sponsorship

import "github.com/beledshul/sponsorship/internal/expense"

// Progress is the sponsored-vs-budget state of one slot.
type Progress struct {
	TotalCents         int64   `json:"total_cents"`
	ExpenseAmountCents int64   `json:"expense_amount_cents"`
	RemainingCents     int64   `json:"remaining_cents"`
	Percentage         float64 `json:"percentage"`
}

// ComputeProgress aggregates the ledger against the resolved monthly amount.
// Percentage is clamped to [0, 100]; a zero budget yields 0 rather than a
// division blowup. Remaining never goes negative: over-sponsorship is
// accepted, not rejected. Pure function of its inputs.
func ComputeProgress(e *expense.Expense, monthIndex int, ledger []*Sponsorship, year int) Progress {
	expenseAmount := e.ResolveAmount(monthIndex)

	var total int64
	for _, entry := range ledger {
		if entry.MatchesSlot(e.ID, monthIndex, year) {
			total += entry.AmountCents
		}
	}

	var percentage float64
	if expenseAmount > 0 {
		percentage = float64(total) / float64(expenseAmount) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	remaining := expenseAmount - total
	if remaining < 0 {
		remaining = 0
	}

	return Progress{
		TotalCents:         total,
		ExpenseAmountCents: expenseAmount,
		RemainingCents:     remaining,
		Percentage:         percentage,
	}
}
