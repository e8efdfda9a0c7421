package sponsorship

import "time"

// Sponsorship is the persistence model for one pledge against an
// (expense, month, year) slot. Rows are append-only: admin removal deletes,
// nothing mutates in place.
type Sponsorship struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ExpenseID   string    `json:"expense_id" gorm:"column:expense_id;not null;index"`
	Month       int       `json:"month" gorm:"not null"`
	Year        int       `json:"year" gorm:"not null"`
	AmountCents int64     `json:"amount_cents" gorm:"column:amount_cents;not null"`
	MemberName  string    `json:"member_name" gorm:"column:member_name;not null"`
	MemberEmail string    `json:"member_email,omitempty" gorm:"column:member_email"`
	MemberPhone string    `json:"member_phone,omitempty" gorm:"column:member_phone"`
	Dedication  string    `json:"dedication,omitempty"`
	Message     string    `json:"message,omitempty"`
	Recurring   bool      `json:"recurring"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Sponsorship) TableName() string {
	return "sponsorships"
}
