package events

import (
	"time"

	"github.com/google/uuid"
)

// Change events mirror every catalog and ledger mutation so connected
// clients can refresh without polling, the way the original app consumed
// document-store snapshots.
const (
	EventTypeExpenseCreated     = "expense.created"
	EventTypeExpenseUpdated     = "expense.updated"
	EventTypeExpenseDeleted     = "expense.deleted"
	EventTypeSponsorshipCreated = "sponsorship.created"
	EventTypeSponsorshipDeleted = "sponsorship.deleted"
)

type ExpenseChangedEvent struct {
	BaseEvent
	ExpenseID string `json:"expense_id"`
	Name      string `json:"name"`
}

func newExpenseChangedEvent(eventType, expenseID, name string) *ExpenseChangedEvent {
	return &ExpenseChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"name":       name,
			},
		},
		ExpenseID: expenseID,
		Name:      name,
	}
}

func NewExpenseCreatedEvent(expenseID, name string) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseCreated, expenseID, name)
}

func NewExpenseUpdatedEvent(expenseID, name string) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseUpdated, expenseID, name)
}

func NewExpenseDeletedEvent(expenseID, name string) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseDeleted, expenseID, name)
}

type SponsorshipChangedEvent struct {
	BaseEvent
	SponsorshipID string `json:"sponsorship_id"`
	ExpenseID     string `json:"expense_id"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	AmountCents   int64  `json:"amount_cents"`
}

func newSponsorshipChangedEvent(eventType, sponsorshipID, expenseID string, month, year int, amountCents int64) *SponsorshipChangedEvent {
	return &SponsorshipChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"sponsorship_id": sponsorshipID,
				"expense_id":     expenseID,
				"month":          month,
				"year":           year,
				"amount_cents":   amountCents,
			},
		},
		SponsorshipID: sponsorshipID,
		ExpenseID:     expenseID,
		Month:         month,
		Year:          year,
		AmountCents:   amountCents,
	}
}

func NewSponsorshipCreatedEvent(sponsorshipID, expenseID string, month, year int, amountCents int64) *SponsorshipChangedEvent {
	return newSponsorshipChangedEvent(EventTypeSponsorshipCreated, sponsorshipID, expenseID, month, year, amountCents)
}

func NewSponsorshipDeletedEvent(sponsorshipID, expenseID string, month, year int, amountCents int64) *SponsorshipChangedEvent {
	return newSponsorshipChangedEvent(EventTypeSponsorshipDeleted, sponsorshipID, expenseID, month, year, amountCents)
}
