package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/propensity-service/internal/application/usecase"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
)

// AuditHandler serves audited predictions. It is only mounted when the audit
// store is configured.
type AuditHandler struct {
	get    *usecase.GetPrediction
	logger *slog.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(get *usecase.GetPrediction, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{get: get, logger: logger}
}

// RegisterRoutes registers the audit lookup endpoint on mux.
func (h *AuditHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /predictions/{id}", h.Get)
}

// Get returns one audited prediction by id.
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prediction id")
		return
	}

	resp, err := h.get.Execute(r.Context(), id)
	switch {
	case errors.Is(err, model.ErrPredictionNotFound):
		writeError(w, http.StatusNotFound, "prediction not found")
	case err != nil:
		h.logger.ErrorContext(r.Context(), "prediction lookup failed",
			slog.String("prediction_id", id.String()),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}
