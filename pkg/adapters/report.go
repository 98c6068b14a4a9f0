package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/api"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/models/store"
)

func MapDomainReportToStore(r *domain.Report) (store.Report, error) {
	row := store.Report{
		ID:           r.ID,
		BusinessID:   r.BusinessID,
		BusinessName: r.BusinessName,
		RequestedBy:  r.RequestedBy,
		TemplateID:   r.TemplateID,
		ScheduleID:   r.ScheduleID,
		Kind:         string(r.Kind),
		PeriodStart:  r.Period.Start,
		PeriodEnd:    r.Period.End,
		PeriodType:   string(r.Period.Type),
		Status:       string(r.Status),
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		CompletedAt:  r.CompletedAt,
		ContentText:  optional(r.ContentText),
		ContentHTML:  optional(r.ContentHTML),
	}
	if r.Status.Terminal() {
		ms := r.GenerationTimeMs
		row.GenerationTimeMs = &ms
	}
	if r.Health != nil {
		score := r.Health.Score
		row.HealthScore = &score
	}

	var err error
	columns := []struct {
		dst   *[]byte
		value any
		set   bool
	}{
		{&row.MetricsData, r.Metrics, r.Metrics != nil},
		{&row.TrendsData, r.Trends, r.Trends != nil},
		{&row.Insights, r.Insights, r.Insights != nil},
		{&row.Recommendations, r.Recommendations, r.Recommendations != nil},
		{&row.Comparisons, r.Comparisons, r.Comparisons != nil},
		{&row.HealthBreakdown, r.Health, r.Health != nil},
	}
	for _, c := range columns {
		if !c.set {
			continue
		}
		if *c.dst, err = json.Marshal(c.value); err != nil {
			return store.Report{}, fmt.Errorf("encode report %s: %w", r.ID, err)
		}
	}
	return row, nil
}

func MapStoreReportToDomain(row store.Report) (*domain.Report, error) {
	r := &domain.Report{
		ID:           row.ID,
		BusinessID:   row.BusinessID,
		BusinessName: row.BusinessName,
		RequestedBy:  row.RequestedBy,
		TemplateID:   row.TemplateID,
		ScheduleID:   row.ScheduleID,
		Kind:         domain.ReportKind(row.Kind),
		Period: domain.Period{
			Start: domain.Day(row.PeriodStart),
			End:   domain.Day(row.PeriodEnd),
			Type:  domain.PeriodType(row.PeriodType),
		},
		Status:       domain.ReportStatus(row.Status),
		ContentText:  deref(row.ContentText),
		ContentHTML:  deref(row.ContentHTML),
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    row.CreatedAt.UTC(),
		CompletedAt:  row.CompletedAt,
	}
	if row.GenerationTimeMs != nil {
		r.GenerationTimeMs = *row.GenerationTimeMs
	}

	decode := func(data []byte, dst any) error {
		if len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("decode report %s: %w", row.ID, err)
		}
		return nil
	}
	if len(row.MetricsData) > 0 {
		r.Metrics = &domain.MetricsBundle{}
	}
	if len(row.TrendsData) > 0 {
		r.Trends = &domain.TrendBundle{}
	}
	if len(row.HealthBreakdown) > 0 {
		r.Health = &domain.HealthScoreResult{}
	}
	for _, c := range []struct {
		data []byte
		dst  any
	}{
		{row.MetricsData, r.Metrics},
		{row.TrendsData, r.Trends},
		{row.Insights, &r.Insights},
		{row.Recommendations, &r.Recommendations},
		{row.Comparisons, &r.Comparisons},
		{row.HealthBreakdown, r.Health},
	} {
		if err := decode(c.data, c.dst); err != nil {
			return nil, err
		}
	}
	if r.Health != nil && row.HealthScore != nil {
		r.Health.Score = *row.HealthScore
	}
	return r, nil
}

func MapDomainPeriodToAPI(p domain.Period) api.Period {
	return api.Period{
		Start: p.Start.Format(time.DateOnly),
		End:   p.End.Format(time.DateOnly),
		Type:  string(p.Type),
		Days:  p.Days(),
	}
}

func MapDomainReportToAPI(r *domain.Report) api.Report {
	out := api.Report{
		ID:               r.ID,
		BusinessID:       r.BusinessID,
		BusinessName:     r.BusinessName,
		RequestedBy:      r.RequestedBy,
		TemplateID:       r.TemplateID,
		ScheduleID:       r.ScheduleID,
		Kind:             string(r.Kind),
		Period:           MapDomainPeriodToAPI(r.Period),
		Status:           string(r.Status),
		GenerationTimeMs: r.GenerationTimeMs,
		ErrorMessage:     r.ErrorMessage,
		CreatedAt:        r.CreatedAt,
		CompletedAt:      r.CompletedAt,
	}
	// A failed report exposes only its error, never partial content.
	if r.Status != domain.ReportStatusCompleted {
		return out
	}
	out.MetricsData = r.Metrics
	out.TrendsData = r.Trends
	out.Insights = r.Insights
	out.Recommendations = r.Recommendations
	out.Comparisons = r.Comparisons
	out.ContentText = r.ContentText
	out.ContentHTML = r.ContentHTML
	if h := r.Health; h != nil {
		score, modifier := h.Score, h.TrendModifier
		out.HealthScore = &score
		out.TrendModifier = &modifier
		out.HealthLabel = string(h.Label)
		out.HealthColor = string(h.Color)
		out.HealthBreakdown = h.Breakdown
	}
	return out
}

func MapDomainSummaryToAPI(s *domain.Summary) api.Summary {
	return api.Summary{
		BusinessID:  s.BusinessID,
		Period:      MapDomainPeriodToAPI(s.Period),
		HealthScore: s.HealthScore,
		HealthLabel: string(s.HealthLabel),
		LabelText:   s.LabelText,
		KeyMetrics:  s.KeyMetrics,
		KPIProgress: s.KPIProgress,
	}
}
