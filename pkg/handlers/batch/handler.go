package batch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/api"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	controller workflow.Controller
}

func NewHandler(controller workflow.Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.StartBatch)
	r.Get("/{id}", h.GetBatch)
	r.Delete("/{id}", h.CancelBatch)
}

func (h *Handler) StartBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.StartBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.BusinessIDs) == 0 {
		writeError(ctx, w, http.StatusBadRequest, "'business_ids' must not be empty")
		return
	}
	start, err := time.Parse(time.DateOnly, body.StartDate)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid 'start_date' format. Expected format: YYYY-MM-DD")
		return
	}
	end, err := time.Parse(time.DateOnly, body.EndDate)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid 'end_date' format. Expected format: YYYY-MM-DD")
		return
	}
	if start.After(end) {
		writeError(ctx, w, http.StatusBadRequest, domain.ErrInvalidPeriod.Error())
		return
	}
	periodType := domain.PeriodType(body.PeriodType)
	if !periodType.Valid() {
		writeError(ctx, w, http.StatusBadRequest, "invalid 'period_type'. Expected one of: day, week, month, quarter, year, custom")
		return
	}
	kind := domain.ReportKind(body.Kind)
	if !kind.Valid() {
		writeError(ctx, w, http.StatusBadRequest, "invalid 'kind'. Expected one of: daily, weekly, monthly, custom")
		return
	}

	id, err := h.controller.Start(ctx, workflow.Batch{
		BusinessIDs: body.BusinessIDs,
		Start:       start,
		End:         end,
		PeriodType:  periodType,
		Kind:        kind,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to start batch")
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, w, http.StatusAccepted, api.BatchStarted{ID: id})
}

func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.controller.Status(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, status)
}

func (h *Handler) CancelBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.controller.Cancel(ctx, chi.URLParam(r, "id")); err != nil {
		writeLookupError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeLookupError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, workflow.ErrBatchNotFound) {
		writeError(ctx, w, http.StatusNotFound, err.Error())
		return
	}
	writeError(ctx, w, http.StatusInternalServerError, err.Error())
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, api.Error{Error: msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
