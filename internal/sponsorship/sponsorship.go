package sponsorship

import (
	"time"

	sponsorshipDatamodel "github.com/beledshul/sponsorship/internal/core/datamodel/sponsorship"
)

// Sponsorship is one member pledge against an (expense, month, year) slot.
// A recurring pledge is a single entry with the flag set; rendering it
// across the year range is a display concern, not a ledger one.
type Sponsorship struct {
	ID          string    `json:"id"`
	ExpenseID   string    `json:"expense_id"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	AmountCents int64     `json:"amount_cents"`
	MemberName  string    `json:"member_name"`
	MemberEmail string    `json:"member_email,omitempty"`
	MemberPhone string    `json:"member_phone,omitempty"`
	Dedication  string    `json:"dedication,omitempty"`
	Message     string    `json:"message,omitempty"`
	Recurring   bool      `json:"recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchesSlot reports whether this entry counts toward the given slot.
func (s *Sponsorship) MatchesSlot(expenseID string, month, year int) bool {
	return s.ExpenseID == expenseID && s.Month == month && s.Year == year
}

func ToDataModel(s *Sponsorship) *sponsorshipDatamodel.Sponsorship {
	return &sponsorshipDatamodel.Sponsorship{
		ID:          s.ID,
		ExpenseID:   s.ExpenseID,
		Month:       s.Month,
		Year:        s.Year,
		AmountCents: s.AmountCents,
		MemberName:  s.MemberName,
		MemberEmail: s.MemberEmail,
		MemberPhone: s.MemberPhone,
		Dedication:  s.Dedication,
		Message:     s.Message,
		Recurring:   s.Recurring,
		CreatedAt:   s.CreatedAt,
	}
}

func FromDataModel(s *sponsorshipDatamodel.Sponsorship) *Sponsorship {
	return &Sponsorship{
		ID:          s.ID,
		ExpenseID:   s.ExpenseID,
		Month:       s.Month,
		Year:        s.Year,
		AmountCents: s.AmountCents,
		MemberName:  s.MemberName,
		MemberEmail: s.MemberEmail,
		MemberPhone: s.MemberPhone,
		Dedication:  s.Dedication,
		Message:     s.Message,
		Recurring:   s.Recurring,
		CreatedAt:   s.CreatedAt,
	}
}

func FromDataModelSlice(entries []*sponsorshipDatamodel.Sponsorship) []*Sponsorship {
	result := make([]*Sponsorship, len(entries))
	for i, s := range entries {
		result[i] = FromDataModel(s)
	}
	return result
}
