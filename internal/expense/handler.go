package expense

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/transport"
	"github.com/beledshul/sponsorship/pkg/logger"
)

type ServiceAPI interface {
	ListCatalog() ([]*Expense, error)
	CatalogProgress(expenses []*Expense, month, year int) (map[string]EntryProgress, error)
	GetExpenseByID(id string) (*Expense, error)
	CreateExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error)
	UpdateExpense(ctx context.Context, id string, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	Summary(year int) (*SummaryResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListExpenses returns the catalog in display order. With ?month=&year= the
// entries also carry their slot progress, so the month grid renders from one
// request.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListCatalog()
	if err != nil {
		h.Logger.Error("ListExpenses: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	var progress map[string]EntryProgress
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr != "" || yearStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid month")
			return
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}

		progress, err = h.Service.CatalogProgress(expenses, month, year)
		if err != nil {
			h.Logger.Error("ListExpenses: progress error", "error", err, "month", month, "year", year)
			h.HandleServiceError(w, err)
			return
		}
	}

	entries := make([]CatalogEntryResponse, 0, len(expenses))
	for _, e := range expenses {
		entry := NewCatalogEntryResponse(e)
		if progress != nil {
			p := progress[e.ID]
			entry.Progress = &p
		}
		entries = append(entries, entry)
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": entries,
	})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exp, err := h.Service.GetExpenseByID(id)
	if err != nil {
		h.Logger.Error("GetExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewCatalogEntryResponse(exp))
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.CreateExpense(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateExpense: expense created", "expense_id", exp.ID, "name", exp.Name)
	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.UpdateExpense(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		h.Logger.Error("DeleteExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteExpense: expense deleted", "expense_id", id)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summary reports catalog-wide aggregates for a year.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	summary, err := h.Service.Summary(year)
	if err != nil {
		h.Logger.Error("Summary: service error", "error", err, "year", year)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func yearParam(r *http.Request) (int, error) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return 0, internal.NewValidationError("year is required", internal.ErrCodeInvalidYear)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, internal.NewValidationError("year must be a number", internal.ErrCodeInvalidYear).WithCause(err)
	}
	return year, nil
}
