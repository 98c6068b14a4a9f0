package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/business-pulse/pkg/adapters"
	"github.com/de-tools/business-pulse/pkg/models/api"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/facts"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultListLimit = 50

type ReportService interface {
	Generate(ctx context.Context, req report.Request) (*domain.Report, error)
	Get(ctx context.Context, businessID, id string) (*domain.Report, error)
	List(ctx context.Context, businessID string, limit int) ([]*domain.Report, error)
	Summary(ctx context.Context, businessID string) (*domain.Summary, error)
}

type BriefComposer interface {
	Compose(ctx context.Context, business domain.Business, day time.Time) (domain.Brief, error)
}

type BusinessLookup interface {
	GetBusiness(ctx context.Context, id string) (domain.Business, error)
}

type Handler struct {
	reports    ReportService
	briefs     BriefComposer
	businesses BusinessLookup
	now        func() time.Time
}

func NewHandler(reports ReportService, briefs BriefComposer, businesses BusinessLookup) *Handler {
	return &Handler{
		reports:    reports,
		briefs:     briefs,
		businesses: businesses,
		now:        time.Now,
	}
}

// Routes mounts under /businesses/{business}.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/reports", h.GenerateReport)
	r.Get("/reports", h.ListReports)
	r.Get("/reports/{id}", h.GetReport)
	r.Get("/summary", h.GetSummary)
	r.Get("/brief", h.GetBrief)
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := chi.URLParam(r, "business")

	var body api.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
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

	rep, err := h.reports.Generate(ctx, report.Request{
		BusinessID:  businessID,
		Start:       start,
		End:         end,
		PeriodType:  periodType,
		Kind:        kind,
		RequestedBy: body.RequestedBy,
		TemplateID:  body.TemplateID,
		ScheduleID:  body.ScheduleID,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, adapters.MapDomainReportToAPI(rep))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := chi.URLParam(r, "business")

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(ctx, w, http.StatusBadRequest, "invalid 'limit'. Expected a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.reports.List(ctx, businessID, limit)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	response := make([]api.Report, 0, len(reports))
	for _, rep := range reports {
		response = append(response, adapters.MapDomainReportToAPI(rep))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rep, err := h.reports.Get(ctx, chi.URLParam(r, "business"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapDomainReportToAPI(rep))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.reports.Summary(ctx, chi.URLParam(r, "business"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapDomainSummaryToAPI(summary))
}

func (h *Handler) GetBrief(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "invalid 'date' format. Expected format: YYYY-MM-DD")
			return
		}
		day = parsed
	}

	business, err := h.businesses.GetBusiness(ctx, chi.URLParam(r, "business"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	brief, err := h.briefs.Compose(ctx, business, day)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, brief)
}

func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod):
		writeError(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, facts.ErrBusinessNotFound), errors.Is(err, report.ErrReportNotFound):
		writeError(ctx, w, http.StatusNotFound, err.Error())
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
	}
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
