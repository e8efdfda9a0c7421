package sponsorship

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/core/events"
	"github.com/beledshul/sponsorship/internal/expense"
	"github.com/beledshul/sponsorship/internal/hebrew"
)

// ListFilter narrows ledger listings. Month is a pointer because index 0
// (Tishrei) is a valid filter value.
type ListFilter struct {
	ExpenseID string
	Month     *int
	Year      int
}

// Repository defines the data access methods for the sponsorship ledger.
type Repository interface {
	Create(s *Sponsorship) error
	GetByID(id string) (*Sponsorship, error)
	List(filter ListFilter) ([]*Sponsorship, error)
	ListForSlot(expenseID string, month, year int) ([]*Sponsorship, error)
	IDsByExpenseID(expenseID string) ([]string, error)
	Delete(id string) error
	SumForSlot(expenseID string, month, year int) (int64, error)
	DistinctMemberNames() ([]string, error)
}

// CatalogAccess is the slice of the expense catalog the ledger needs.
type CatalogAccess interface {
	GetByID(id string) (*expense.Expense, error)
	GetAll() ([]*expense.Expense, error)
}

// Service handles sponsorship submissions and admin ledger operations.
type Service struct {
	repo    Repository
	catalog CatalogAccess
	bus     *events.EventBus
	cfg     internal.SponsorshipConfig
	org     internal.OrganizationConfig
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog CatalogAccess, bus *events.EventBus, cfg internal.SponsorshipConfig, org internal.OrganizationConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		bus:     bus,
		cfg:     cfg,
		org:     org,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the service clock; expiry checks and timestamps
// become deterministic in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateSponsorship runs the full submission flow: field validation, slot
// lookup, the soft remaining-balance cap, and persistence with bounded
// retry. The cap is advisory only; concurrent submissions can still race
// past it, and aggregates clamp rather than reject.
func (s *Service) CreateSponsorship(ctx context.Context, dto CreateSponsorshipDTO) (*CreateSponsorshipResponse, error) {
	if err := dto.Validate(s.now()); err != nil {
		s.logger.Warn("sponsorship validation failed", "error", err, "expense_id", dto.ExpenseID)
		return nil, err
	}

	if !s.cfg.ValidYear(dto.Year) {
		return nil, internal.NewValidationError("year outside the selectable range", internal.ErrCodeInvalidYear)
	}

	exp, err := s.catalog.GetByID(dto.ExpenseID)
	if err != nil {
		s.logger.Error("expense not found for sponsorship", "error", err, "expense_id", dto.ExpenseID)
		return nil, internal.ErrExpenseNotFound
	}

	ledger, err := s.repo.ListForSlot(dto.ExpenseID, dto.Month, dto.Year)
	if err != nil {
		s.logger.Error("failed to load slot ledger", "error", err, "expense_id", dto.ExpenseID)
		return nil, internal.NewStoreError("could not load sponsorships for this month", err)
	}

	progress := ComputeProgress(exp, dto.Month, ledger, dto.Year)
	if progress.RemainingCents == 0 {
		s.logger.Warn("slot already fully sponsored",
			"expense_id", dto.ExpenseID, "month", dto.Month, "year", dto.Year)
		return nil, internal.ErrSlotFullySponsored
	}
	if dto.AmountCents > progress.RemainingCents {
		s.logger.Warn("amount exceeds remaining balance",
			"expense_id", dto.ExpenseID,
			"amount", dto.AmountCents,
			"remaining", progress.RemainingCents)
		return nil, internal.ErrAmountExceedsSlot
	}

	entry := &Sponsorship{
		ID:          uuid.New().String(),
		ExpenseID:   dto.ExpenseID,
		Month:       dto.Month,
		Year:        dto.Year,
		AmountCents: dto.AmountCents,
		MemberName:  dto.MemberName,
		MemberEmail: dto.MemberEmail,
		MemberPhone: dto.MemberPhone,
		Dedication:  dto.Dedication,
		Message:     dto.Message,
		Recurring:   dto.Recurring,
		CreatedAt:   s.now(),
	}

	if err := s.persistWithRetry(ctx, entry); err != nil {
		s.logger.Error("failed to persist sponsorship after retries",
			"error", err, "expense_id", dto.ExpenseID, "member", dto.MemberName)
		return nil, internal.NewStoreError("could not save sponsorship", err)
	}

	s.logger.Info("sponsorship created",
		"sponsorship_id", entry.ID,
		"expense_id", entry.ExpenseID,
		"month", entry.Month,
		"year", entry.Year,
		"amount", entry.AmountCents,
		"recurring", entry.Recurring)
	s.bus.Publish(ctx, events.NewSponsorshipCreatedEvent(entry.ID, entry.ExpenseID, entry.Month, entry.Year, entry.AmountCents))

	return &CreateSponsorshipResponse{
		Sponsorship: entry,
		Receipt:     BuildReceipt(s.org, entry, exp.Name),
	}, nil
}

// persistWithRetry wraps the single ledger insert in bounded exponential
// backoff. One row per submission keeps the write all-or-nothing.
func (s *Service) persistWithRetry(ctx context.Context, entry *Sponsorship) error {
	backoff := retry.NewExponential(time.Duration(s.cfg.WriteBackoffMs) * time.Millisecond)
	backoff = retry.WithMaxRetries(uint64(s.cfg.WriteRetries), backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.repo.Create(entry); err != nil {
			s.logger.Warn("sponsorship write failed, will retry", "error", err, "sponsorship_id", entry.ID)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// ListSponsorships returns ledger entries for the admin view. Entries whose
// expense has been deleted are flagged, not hidden.
func (s *Service) ListSponsorships(filter ListFilter) ([]SponsorshipResponse, error) {
	entries, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list sponsorships", "error", err)
		return nil, err
	}

	expenses, err := s.catalog.GetAll()
	if err != nil {
		s.logger.Error("failed to load catalog for sponsorship listing", "error", err)
		return nil, err
	}
	names := make(map[string]string, len(expenses))
	for _, e := range expenses {
		names[e.ID] = e.Name
	}

	responses := make([]SponsorshipResponse, 0, len(entries))
	for _, entry := range entries {
		name, ok := names[entry.ExpenseID]
		responses = append(responses, SponsorshipResponse{
			Sponsorship:    entry,
			ExpenseName:    name,
			ExpenseMissing: !ok,
		})
	}
	return responses, nil
}

// Members returns the distinct member names seen in the ledger, sorted.
// The sponsorship form uses them to prefill the donor field for returning
// members.
func (s *Service) Members() ([]string, error) {
	names, err := s.repo.DistinctMemberNames()
	if err != nil {
		s.logger.Error("failed to list member names", "error", err)
		return nil, internal.NewStoreError("could not load member names", err)
	}
	return names, nil
}

func (s *Service) DeleteSponsorship(ctx context.Context, id string) error {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("sponsorship not found for delete", "error", err, "sponsorship_id", id)
		return internal.ErrSponsorshipNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete sponsorship", "error", err, "sponsorship_id", id)
		return internal.NewStoreError("could not delete sponsorship", err)
	}

	s.logger.Info("sponsorship deleted", "sponsorship_id", id, "expense_id", entry.ExpenseID)
	s.bus.Publish(ctx, events.NewSponsorshipDeletedEvent(entry.ID, entry.ExpenseID, entry.Month, entry.Year, entry.AmountCents))

	return nil
}

// SlotProgress computes the sponsored/remaining state of one slot.
func (s *Service) SlotProgress(expenseID string, month, year int) (*SlotProgressResponse, error) {
	if !hebrew.ValidMonth(month) {
		return nil, internal.NewValidationError("month must be between 0 and 11", internal.ErrCodeInvalidMonth)
	}
	if !s.cfg.ValidYear(year) {
		return nil, internal.NewValidationError("year outside the selectable range", internal.ErrCodeInvalidYear)
	}

	exp, err := s.catalog.GetByID(expenseID)
	if err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	ledger, err := s.repo.ListForSlot(expenseID, month, year)
	if err != nil {
		s.logger.Error("failed to load slot ledger", "error", err, "expense_id", expenseID)
		return nil, internal.NewStoreError("could not load sponsorships for this month", err)
	}

	return &SlotProgressResponse{
		ExpenseID: expenseID,
		Month:     month,
		Year:      year,
		Progress:  ComputeProgress(exp, month, ledger, year),
	}, nil
}

// Receipt rebuilds the receipt text for a stored sponsorship. A deleted
// expense does not block the receipt; its name is replaced with a marker.
func (s *Service) Receipt(id string) (string, error) {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return "", internal.ErrSponsorshipNotFound
	}

	name := "(expense removed)"
	if exp, err := s.catalog.GetByID(entry.ExpenseID); err == nil {
		name = exp.Name
	}

	return BuildReceipt(s.org, entry, name), nil
}

// ReceiptPDF renders the printable version of the same receipt.
func (s *Service) ReceiptPDF(id string) ([]byte, error) {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrSponsorshipNotFound
	}

	name := "(expense removed)"
	if exp, err := s.catalog.GetByID(entry.ExpenseID); err == nil {
		name = exp.Name
	}

	return RenderReceiptPDF(s.org, entry, name)
}
