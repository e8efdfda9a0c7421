package sponsorship

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/beledshul/sponsorship/internal/transport"
	"github.com/beledshul/sponsorship/pkg/logger"
)

type ServiceAPI interface {
	CreateSponsorship(ctx context.Context, dto CreateSponsorshipDTO) (*CreateSponsorshipResponse, error)
	ListSponsorships(filter ListFilter) ([]SponsorshipResponse, error)
	Members() ([]string, error)
	DeleteSponsorship(ctx context.Context, id string) error
	SlotProgress(expenseID string, month, year int) (*SlotProgressResponse, error)
	Receipt(id string) (string, error)
	ReceiptPDF(id string) ([]byte, error)
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

func (h *Handler) CreateSponsorship(w http.ResponseWriter, r *http.Request) {
	var dto CreateSponsorshipDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateSponsorship: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.CreateSponsorship(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateSponsorship: service error", "error", err, "expense_id", dto.ExpenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateSponsorship: sponsorship created",
		"sponsorship_id", resp.Sponsorship.ID,
		"expense_id", resp.Sponsorship.ExpenseID,
		"amount", resp.Sponsorship.AmountCents)
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListSponsorships(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		ExpenseID: r.URL.Query().Get("expense_id"),
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.Year = year
		}
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		if month, err := strconv.Atoi(monthStr); err == nil {
			filter.Month = &month
		}
	}

	entries, err := h.Service.ListSponsorships(filter)
	if err != nil {
		h.Logger.Error("ListSponsorships: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sponsorships": entries,
	})
}

// ListMembers returns the distinct donor names for the form's autocomplete.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.Members()
	if err != nil {
		h.Logger.Error("ListMembers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"members": names,
	})
}

func (h *Handler) DeleteSponsorship(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteSponsorship(r.Context(), id); err != nil {
		h.Logger.Error("DeleteSponsorship: service error", "error", err, "sponsorship_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteSponsorship: sponsorship deleted", "sponsorship_id", id)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SlotProgress answers GET /expenses/{id}/progress?month=&year=.
func (h *Handler) SlotProgress(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "id")

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	progress, err := h.Service.SlotProgress(expenseID, month, year)
	if err != nil {
		h.Logger.Error("SlotProgress: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, progress)
}

// Receipt serves the stored receipt as text, or as PDF with ?format=pdf.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("format") == "pdf" {
		pdfBytes, err := h.Service.ReceiptPDF(id)
		if err != nil {
			h.Logger.Error("Receipt: pdf render error", "error", err, "sponsorship_id", id)
			h.HandleServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		w.Write(pdfBytes)
		return
	}

	receipt, err := h.Service.Receipt(id)
	if err != nil {
		h.Logger.Error("Receipt: service error", "error", err, "sponsorship_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(receipt))
}
