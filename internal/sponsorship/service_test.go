package sponsorship_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/core/events"
	"github.com/beledshul/sponsorship/internal/expense"
	"github.com/beledshul/sponsorship/internal/sponsorship"
)

// MockRepository implements sponsorship.Repository for testing
type MockRepository struct {
	entries      map[string]*sponsorship.Sponsorship
	createFails  int
	createErr    error
	createCalled int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{entries: make(map[string]*sponsorship.Sponsorship)}
}

func (m *MockRepository) Create(s *sponsorship.Sponsorship) error {
	m.createCalled++
	if m.createFails > 0 {
		m.createFails--
		return m.createErr
	}
	m.entries[s.ID] = s
	return nil
}

func (m *MockRepository) GetByID(id string) (*sponsorship.Sponsorship, error) {
	s, ok := m.entries[id]
	if !ok {
		return nil, sponsorship.ErrNotFound
	}
	return s, nil
}

func (m *MockRepository) List(filter sponsorship.ListFilter) ([]*sponsorship.Sponsorship, error) {
	var result []*sponsorship.Sponsorship
	for _, s := range m.entries {
		if filter.ExpenseID != "" && s.ExpenseID != filter.ExpenseID {
			continue
		}
		if filter.Month != nil && s.Month != *filter.Month {
			continue
		}
		if filter.Year != 0 && s.Year != filter.Year {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *MockRepository) ListForSlot(expenseID string, month, year int) ([]*sponsorship.Sponsorship, error) {
	mi := month
	return m.List(sponsorship.ListFilter{ExpenseID: expenseID, Month: &mi, Year: year})
}

func (m *MockRepository) IDsByExpenseID(expenseID string) ([]string, error) {
	var ids []string
	for id, s := range m.entries {
		if s.ExpenseID == expenseID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockRepository) Delete(id string) error {
	delete(m.entries, id)
	return nil
}

func (m *MockRepository) SumForSlot(expenseID string, month, year int) (int64, error) {
	entries, _ := m.ListForSlot(expenseID, month, year)
	var total int64
	for _, s := range entries {
		total += s.AmountCents
	}
	return total, nil
}

func (m *MockRepository) DistinctMemberNames() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, s := range m.entries {
		if !seen[s.MemberName] {
			seen[s.MemberName] = true
			names = append(names, s.MemberName)
		}
	}
	sort.Strings(names)
	return names, nil
}

// MockCatalog implements sponsorship.CatalogAccess for testing
type MockCatalog struct {
	expenses map[string]*expense.Expense
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{expenses: make(map[string]*expense.Expense)}
}

func (m *MockCatalog) GetByID(id string) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, expense.ErrNotFound
	}
	return e, nil
}

func (m *MockCatalog) GetAll() ([]*expense.Expense, error) {
	var result []*expense.Expense
	for _, e := range m.expenses {
		result = append(result, e)
	}
	return result, nil
}

var _ = Describe("Sponsorship Service", func() {
	var (
		mockRepo    *MockRepository
		mockCatalog *MockCatalog
		service     *sponsorship.Service
		ctx         context.Context
	)

	cfg := internal.SponsorshipConfig{
		CurrentMonthIndex: 0,
		StartYear:         5784,
		EndYear:           5788,
		WriteRetries:      2,
		WriteBackoffMs:    1,
	}

	fixedNow := time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC)

	validDTO := func() sponsorship.CreateSponsorshipDTO {
		return sponsorship.CreateSponsorshipDTO{
			ExpenseID:   "exp-1",
			Month:       0,
			Year:        5785,
			AmountCents: 15000,
			MemberName:  "Dovid Klein",
			MemberEmail: "dovid@example.com",
			CardNumber:  "4111111111111111",
			Expiry:      "12/25",
			CVV:         "123",
		}
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockCatalog = NewMockCatalog()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = sponsorship.NewService(mockRepo, mockCatalog, events.NewEventBus(logger), cfg, testOrg, logger).
			WithClock(func() time.Time { return fixedNow })
		ctx = context.Background()

		mockCatalog.expenses["exp-1"] = &expense.Expense{
			ID:          "exp-1",
			Name:        "Utilities",
			AmountCents: 30000,
		}
	})

	Describe("CreateSponsorship", func() {
		It("should store the entry and return its receipt", func() {
			resp, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Sponsorship.ID).NotTo(BeEmpty())
			Expect(resp.Sponsorship.CreatedAt).To(Equal(fixedNow))
			Expect(resp.Receipt).To(ContainSubstring("TAX RECEIPT"))
			Expect(resp.Receipt).To(ContainSubstring("Expense: Utilities"))
			Expect(mockRepo.entries).To(HaveKey(resp.Sponsorship.ID))
		})

		It("should reject an invalid card number", func() {
			dto := validDTO()
			dto.CardNumber = "1234567890123456"
			_, err := service.CreateSponsorship(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an expired card", func() {
			dto := validDTO()
			dto.Expiry = "09/24"
			_, err := service.CreateSponsorship(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a year outside the selector range", func() {
			dto := validDTO()
			dto.Year = 5790
			_, err := service.CreateSponsorship(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should return not found for an unknown expense", func() {
			dto := validDTO()
			dto.ExpenseID = "missing"
			_, err := service.CreateSponsorship(ctx, dto)
			Expect(err).To(Equal(internal.ErrExpenseNotFound))
		})

		It("should reject a fully sponsored slot", func() {
			first := validDTO()
			first.AmountCents = 30000
			_, err := service.CreateSponsorship(ctx, first)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateSponsorship(ctx, validDTO())
			Expect(err).To(Equal(internal.ErrSlotFullySponsored))
		})

		It("should reject an amount above the remaining balance", func() {
			first := validDTO()
			first.AmountCents = 20000
			_, err := service.CreateSponsorship(ctx, first)
			Expect(err).NotTo(HaveOccurred())

			second := validDTO()
			second.AmountCents = 15000
			_, err = service.CreateSponsorship(ctx, second)
			Expect(err).To(Equal(internal.ErrAmountExceedsSlot))
		})

		It("should allow the same slot in a different year", func() {
			first := validDTO()
			first.AmountCents = 30000
			_, err := service.CreateSponsorship(ctx, first)
			Expect(err).NotTo(HaveOccurred())

			second := validDTO()
			second.Year = 5786
			second.AmountCents = 30000
			_, err = service.CreateSponsorship(ctx, second)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should retry a failed write and succeed", func() {
			mockRepo.createFails = 1
			mockRepo.createErr = errors.New("connection reset")

			resp, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.createCalled).To(Equal(2))
			Expect(mockRepo.entries).To(HaveKey(resp.Sponsorship.ID))
		})

		It("should surface a store error once retries are exhausted", func() {
			mockRepo.createFails = 10
			mockRepo.createErr = errors.New("connection reset")

			_, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreUnavailable))
		})
	})

	Describe("ListSponsorships", func() {
		BeforeEach(func() {
			_, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should attach the expense name", func() {
			entries, err := service.ListSponsorships(sponsorship.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ExpenseName).To(Equal("Utilities"))
			Expect(entries[0].ExpenseMissing).To(BeFalse())
		})

		It("should flag entries whose expense was deleted", func() {
			delete(mockCatalog.expenses, "exp-1")
			entries, err := service.ListSponsorships(sponsorship.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ExpenseMissing).To(BeTrue())
		})
	})

	Describe("Members", func() {
		It("should return the distinct donor names", func() {
			_, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			second := validDTO()
			second.Month = 1
			second.MemberName = "Aharon Gross"
			_, err = service.CreateSponsorship(ctx, second)
			Expect(err).NotTo(HaveOccurred())

			third := validDTO()
			third.Month = 2
			_, err = service.CreateSponsorship(ctx, third)
			Expect(err).NotTo(HaveOccurred())

			names, err := service.Members()
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"Aharon Gross", "Dovid Klein"}))
		})

		It("should return an empty list for an empty ledger", func() {
			names, err := service.Members()
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
		})
	})

	Describe("DeleteSponsorship", func() {
		It("should remove an existing entry", func() {
			resp, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteSponsorship(ctx, resp.Sponsorship.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.entries).To(BeEmpty())
		})

		It("should return not found for an unknown ID", func() {
			err := service.DeleteSponsorship(ctx, "missing")
			Expect(err).To(Equal(internal.ErrSponsorshipNotFound))
		})
	})

	Describe("SlotProgress", func() {
		It("should report the slot state", func() {
			_, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			progress, err := service.SlotProgress("exp-1", 0, 5785)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress.TotalCents).To(Equal(int64(15000)))
			Expect(progress.RemainingCents).To(Equal(int64(15000)))
			Expect(progress.Percentage).To(Equal(50.0))
		})

		It("should reject an out-of-range month", func() {
			_, err := service.SlotProgress("exp-1", 12, 5785)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Receipt", func() {
		It("should rebuild the receipt for a stored entry", func() {
			resp, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			receipt, err := service.Receipt(resp.Sponsorship.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt).To(Equal(resp.Receipt))
		})

		It("should mark a removed expense instead of failing", func() {
			resp, err := service.CreateSponsorship(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			delete(mockCatalog.expenses, "exp-1")
			receipt, err := service.Receipt(resp.Sponsorship.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt).To(ContainSubstring("Expense: (expense removed)"))
		})

		It("should return not found for an unknown ID", func() {
			_, err := service.Receipt("missing")
			Expect(err).To(Equal(internal.ErrSponsorshipNotFound))
		})
	})
})
