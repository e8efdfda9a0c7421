package expense_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/core/events"
	"github.com/beledshul/sponsorship/internal/expense"
)

var _ = Describe("Expense Handler", func() {
	var (
		mockRepo   *MockRepository
		mockLedger *MockLedger
		service    *expense.Service
		handler    *expense.Handler
		router     *chi.Mux
	)

	cfg := internal.SponsorshipConfig{
		CurrentMonthIndex: 0,
		StartYear:         5784,
		EndYear:           5788,
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockLedger = NewMockLedger()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(mockRepo, mockLedger, events.NewEventBus(logger), cfg, logger)
		handler = expense.NewHandler(service)

		router = chi.NewRouter()
		router.Get("/expenses", handler.ListExpenses)
		router.Post("/expenses", handler.CreateExpense)
		router.Get("/expenses/{id}", handler.GetExpense)
		router.Patch("/expenses/{id}", handler.UpdateExpense)
		router.Delete("/expenses/{id}", handler.DeleteExpense)
		router.Get("/summary", handler.Summary)
	})

	seed := func(name string, position int) *expense.Expense {
		created, err := service.CreateExpense(context.Background(), expense.CreateExpenseDTO{
			Name:        name,
			AmountCents: 30000,
			Position:    position,
		})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	Describe("GET /expenses", func() {
		It("should return the catalog with the mortgage pinned first", func() {
			seed("Utilities", 0)
			seed(expense.MortgageName, 99)

			req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var response struct {
				Expenses []expense.CatalogEntryResponse `json:"expenses"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Expenses).To(HaveLen(2))
			Expect(response.Expenses[0].Name).To(Equal(expense.MortgageName))
			Expect(response.Expenses[1].ResolvedAmounts[0]).To(Equal(int64(30000)))
		})
	})

	Describe("GET /expenses?month=&year=", func() {
		It("should embed slot progress in each entry", func() {
			created := seed("Utilities", 0)
			mockLedger.sums[created.ID] = 15000

			req := httptest.NewRequest(http.MethodGet, "/expenses?month=0&year=5785", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Expenses []expense.CatalogEntryResponse `json:"expenses"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Expenses).To(HaveLen(1))
			Expect(response.Expenses[0].Progress).NotTo(BeNil())
			Expect(response.Expenses[0].Progress.TotalCents).To(Equal(int64(15000)))
			Expect(response.Expenses[0].Progress.RemainingCents).To(Equal(int64(15000)))
			Expect(response.Expenses[0].Progress.Percentage).To(Equal(50.0))
		})

		It("should omit progress without the slot query", func() {
			seed("Utilities", 0)

			req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Expenses []expense.CatalogEntryResponse `json:"expenses"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Expenses[0].Progress).To(BeNil())
		})

		It("should return 400 when the month is missing from the pair", func() {
			seed("Utilities", 0)

			req := httptest.NewRequest(http.MethodGet, "/expenses?year=5785", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /expenses", func() {
		It("should create an entry and return 201", func() {
			body := `{"name":"Utilities","amount_cents":30000}`
			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var created expense.Expense
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.ID).NotTo(BeEmpty())
		})

		It("should return 400 for an invalid payload", func() {
			body := `{"name":"","amount_cents":0}`
			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader("{not json"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /expenses/{id}", func() {
		It("should return 404 for an unknown expense", func() {
			req := httptest.NewRequest(http.MethodGet, "/expenses/missing", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /expenses/{id}", func() {
		It("should cascade to the linked sponsorships", func() {
			created := seed("Utilities", 0)
			mockLedger.byExpense[created.ID] = []string{"sp-1"}

			req := httptest.NewRequest(http.MethodDelete, "/expenses/"+created.ID, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockLedger.deleted).To(Equal([]string{"sp-1"}))
		})
	})

	Describe("GET /summary", func() {
		It("should require a year", func() {
			req := httptest.NewRequest(http.MethodGet, "/summary", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should report the aggregates", func() {
			seed("Utilities", 0)

			req := httptest.NewRequest(http.MethodGet, "/summary?year=5785", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var summary expense.SummaryResponse
			Expect(json.NewDecoder(w.Body).Decode(&summary)).To(Succeed())
			Expect(summary.MonthBudgetCents).To(Equal(int64(30000)))
		})
	})
})
