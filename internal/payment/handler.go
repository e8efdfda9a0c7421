package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/beledshul/sponsorship/internal/transport"
	"github.com/beledshul/sponsorship/pkg/logger"
)

type ServiceAPI interface {
	Precheck(dto PrecheckDTO) *PrecheckResponse
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

// Precheck answers the form's as-you-type card validation.
func (h *Handler) Precheck(w http.ResponseWriter, r *http.Request) {
	var dto PrecheckDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Precheck: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := h.Service.Precheck(dto)
	h.WriteJSON(w, http.StatusOK, resp)
}
