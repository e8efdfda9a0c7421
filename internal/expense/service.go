package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/core/events"
	"github.com/beledshul/sponsorship/internal/hebrew"
)

// Repository defines the data access methods for the expense catalog.
type Repository interface {
	Create(expense *Expense) error
	GetByID(id string) (*Expense, error)
	GetAll() ([]*Expense, error)
	Update(expense *Expense) error
	Delete(id string) error
}

// LedgerAccess is the slice of the sponsorship store the catalog needs:
// cascading deletes and slot sums for the period aggregates.
type LedgerAccess interface {
	IDsByExpenseID(expenseID string) ([]string, error)
	Delete(id string) error
	SumForSlot(expenseID string, month, year int) (int64, error)
}

// Service handles catalog business logic.
type Service struct {
	repo   Repository
	ledger LedgerAccess
	bus    *events.EventBus
	cfg    internal.SponsorshipConfig
	logger *slog.Logger
}

func NewService(repo Repository, ledger LedgerAccess, bus *events.EventBus, cfg internal.SponsorshipConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		bus:    bus,
		cfg:    cfg,
		logger: logger,
	}
}

// CatalogProgress computes per-expense slot progress for a month/year, so
// the catalog listing can carry the month grid in one response instead of
// one progress call per entry. The result is keyed by expense ID.
func (s *Service) CatalogProgress(expenses []*Expense, month, year int) (map[string]EntryProgress, error) {
	if !hebrew.ValidMonth(month) {
		return nil, internal.NewValidationError("month must be between 0 and 11", internal.ErrCodeInvalidMonth)
	}
	if !s.cfg.ValidYear(year) {
		return nil, internal.NewValidationError("year outside the selectable range", internal.ErrCodeInvalidYear)
	}

	progress := make(map[string]EntryProgress, len(expenses))
	for _, e := range expenses {
		total, err := s.ledger.SumForSlot(e.ID, month, year)
		if err != nil {
			s.logger.Error("failed to sum slot", "error", err, "expense_id", e.ID, "month", month, "year", year)
			return nil, internal.NewStoreError("could not load sponsorships for this month", err)
		}
		progress[e.ID] = NewEntryProgress(e.ResolveAmount(month), total)
	}
	return progress, nil
}

// ListCatalog returns the catalog in display order, mortgage pinned first.
func (s *Service) ListCatalog() ([]*Expense, error) {
	expenses, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, err
	}
	SortCatalog(expenses)
	return expenses, nil
}

func (s *Service) GetExpenseByID(id string) (*Expense, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.ErrExpenseNotFound
	}
	return exp, nil
}

func (s *Service) CreateExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "name", dto.Name)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	exp := &Expense{
		ID:               uuid.New().String(),
		Name:             dto.Name,
		Description:      dto.Description,
		AmountCents:      dto.AmountCents,
		IsHighPriority:   dto.IsHighPriority,
		IsFlexible:       dto.IsFlexible,
		SeasonalAmounts:  dto.SeasonalAmounts,
		HasSpecialMonths: dto.HasSpecialMonths,
		SpecialMonths:    dto.SpecialMonths,
		MonthlyAmounts:   dto.MonthlyAmounts,
		Position:         dto.Position,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "name", dto.Name)
		return nil, internal.NewStoreError("could not save expense", err)
	}

	s.logger.Info("expense created", "expense_id", exp.ID, "name", exp.Name, "amount", exp.AmountCents)
	s.bus.Publish(ctx, events.NewExpenseCreatedEvent(exp.ID, exp.Name))

	return exp, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense update validation failed", "error", err, "expense_id", id)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	exp, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("expense not found for update", "error", err, "expense_id", id)
		return nil, internal.ErrExpenseNotFound
	}

	dto.Apply(exp)
	exp.UpdatedAt = time.Now()

	if err := s.repo.Update(exp); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewStoreError("could not save expense", err)
	}

	s.logger.Info("expense updated", "expense_id", exp.ID, "name", exp.Name)
	s.bus.Publish(ctx, events.NewExpenseUpdatedEvent(exp.ID, exp.Name))

	return exp, nil
}

// DeleteExpense removes a catalog entry and every sponsorship referencing
// it. The cascade runs as a sequence of independent deletes, mirroring the
// original store's lack of multi-document transactions; a failure mid-way
// is logged and surfaced, and a later retry cleans up the remainder.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("expense not found for delete", "error", err, "expense_id", id)
		return internal.ErrExpenseNotFound
	}

	sponsorshipIDs, err := s.ledger.IDsByExpenseID(id)
	if err != nil {
		s.logger.Error("failed to list sponsorships for cascade", "error", err, "expense_id", id)
		return internal.NewStoreError("could not load linked sponsorships", err)
	}

	for _, sid := range sponsorshipIDs {
		if err := s.ledger.Delete(sid); err != nil {
			s.logger.Error("cascade delete failed, sponsorships may be orphaned",
				"error", err,
				"expense_id", id,
				"sponsorship_id", sid)
			return internal.NewStoreError("could not delete linked sponsorship", err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewStoreError("could not delete expense", err)
	}

	s.logger.Info("expense deleted",
		"expense_id", id,
		"name", exp.Name,
		"cascaded_sponsorships", len(sponsorshipIDs))
	s.bus.Publish(ctx, events.NewExpenseDeletedEvent(id, exp.Name))

	return nil
}

// Summary computes the annual total and the configured current-period
// aggregates for one year. The current month comes from configuration, not
// the host clock.
func (s *Service) Summary(year int) (*SummaryResponse, error) {
	if !s.cfg.ValidYear(year) {
		return nil, internal.NewValidationError("year outside the selectable range", internal.ErrCodeInvalidYear)
	}

	expenses, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load catalog for summary", "error", err)
		return nil, err
	}

	monthIndex := s.cfg.CurrentMonthIndex
	var budget, sponsored int64
	for _, e := range expenses {
		budget += e.ResolveAmount(monthIndex)

		total, err := s.ledger.SumForSlot(e.ID, monthIndex, year)
		if err != nil {
			s.logger.Error("failed to sum slot", "error", err, "expense_id", e.ID, "month", monthIndex, "year", year)
			return nil, err
		}
		sponsored += total
	}

	percentage := 0
	if budget > 0 {
		percentage = int(sponsored * 100 / budget)
		if percentage > 100 {
			percentage = 100
		}
	}

	return &SummaryResponse{
		Year:              year,
		AnnualTotalCents:  AnnualTotal(expenses),
		CurrentMonthIndex: monthIndex,
		MonthBudgetCents:  budget,
		MonthSponsored:    sponsored,
		MonthPercentage:   percentage,
	}, nil
}
