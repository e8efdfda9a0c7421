package sponsorship

import (
	"errors"
	"time"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/core/common/validation"
	"github.com/beledshul/sponsorship/internal/payment"
)

// ErrNotFound is the repository-level miss; services translate it into the
// HTTP-aware ledger error.
var ErrNotFound = errors.New("sponsorship not found")

// CreateSponsorshipDTO is the full submission from the sponsorship form:
// member details, the targeted slot, and the mock payment fields. Card
// fields are checked for shape only; nothing is charged.
type CreateSponsorshipDTO struct {
	ExpenseID   string `json:"expense_id"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	AmountCents int64  `json:"amount_cents"`
	MemberName  string `json:"member_name"`
	MemberEmail string `json:"member_email,omitempty"`
	MemberPhone string `json:"member_phone,omitempty"`
	Dedication  string `json:"dedication,omitempty"`
	Message     string `json:"message,omitempty"`
	Recurring   bool   `json:"recurring"`
	CardNumber  string `json:"card_number"`
	Expiry      string `json:"expiry"`
	CVV         string `json:"cvv"`
}

// Validate runs every synchronous field check. The remaining-balance check
// needs the ledger and runs in the service instead.
func (dto CreateSponsorshipDTO) Validate(now time.Time) *internal.AppError {
	v := validation.NewValidator()

	v.Field("expense_id", dto.ExpenseID).Required()
	v.Field("member_name", dto.MemberName).Required().MinLength(2, internal.ErrCodeInvalidName)
	v.Field("member_email", dto.MemberEmail).Email(internal.ErrCodeInvalidEmail)
	v.Field("member_phone", dto.MemberPhone).Phone(internal.ErrCodeInvalidPhone)
	v.Field("amount_cents", dto.AmountCents).PositiveAmount(internal.ErrCodeInvalidAmount)
	v.Field("month", dto.Month).MonthIndex(internal.ErrCodeInvalidMonth)

	v.Field("card_number", dto.CardNumber).Custom(func(value interface{}) *internal.AppError {
		if _, ok := payment.ValidCardNumber(dto.CardNumber); !ok {
			return internal.NewValidationFieldError("card_number",
				"card number does not match any accepted card type", internal.ErrCodeInvalidCard)
		}
		return nil
	})
	v.Field("expiry", dto.Expiry).Custom(func(value interface{}) *internal.AppError {
		if !payment.ValidExpiry(dto.Expiry, now) {
			return internal.NewValidationFieldError("expiry",
				"expiry must be MM/YY and not in the past", internal.ErrCodeInvalidExpiry)
		}
		return nil
	})
	v.Field("cvv", dto.CVV).Custom(func(value interface{}) *internal.AppError {
		brand := payment.DetectBrand(dto.CardNumber)
		if !payment.ValidCVV(dto.CVV, brand) {
			return internal.NewValidationFieldError("cvv",
				"CVV must be 3 digits (4 for Amex)", internal.ErrCodeInvalidCVV)
		}
		return nil
	})

	return v.Validate()
}

// SponsorshipResponse decorates a ledger entry for listings. ExpenseMissing
// flags entries whose expense has since been deleted; they stay listed as a
// display-filterable anomaly.
type SponsorshipResponse struct {
	*Sponsorship
	ExpenseName    string `json:"expense_name,omitempty"`
	ExpenseMissing bool   `json:"expense_missing,omitempty"`
}

// CreateSponsorshipResponse returns the stored entry with its receipt so
// the confirmation screen can show both at once.
type CreateSponsorshipResponse struct {
	Sponsorship *Sponsorship `json:"sponsorship"`
	Receipt     string       `json:"receipt"`
}

// SlotProgressResponse answers the per-slot progress query.
type SlotProgressResponse struct {
	ExpenseID string `json:"expense_id"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	Progress
}
