package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
)

// Backend is what the commands need from the wired application.
type Backend interface {
	Generate(ctx context.Context, req report.Request) (*domain.Report, error)
	Summary(ctx context.Context, businessID string) (*domain.Summary, error)
	Brief(ctx context.Context, businessID string, day time.Time) (domain.Brief, error)
	// Publish fails when no artifact store is configured.
	Publish(ctx context.Context, r *domain.Report) error
	ListBusinessIDs(ctx context.Context) ([]string, error)
	Import(ctx context.Context, d store.Dataset) error
	RunBatch(ctx context.Context, batch workflow.Batch, progress func(workflow.RunnerProgress)) []workflow.ItemResult
}

// Session hands the backend to commands once the root command has connected.
type Session struct {
	Backend Backend
}

func (s *Session) backend() (Backend, error) {
	if s == nil || s.Backend == nil {
		return nil, fmt.Errorf("backend is not connected")
	}
	return s.Backend, nil
}

func parseDate(flag, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q. Expected format: YYYY-MM-DD", flag, value)
	}
	return t, nil
}

func parseKinds(periodType, kind string) (domain.PeriodType, domain.ReportKind, error) {
	pt, k := domain.PeriodType(periodType), domain.ReportKind(kind)
	if !pt.Valid() {
		return "", "", fmt.Errorf("invalid --period-type %q. Expected one of: day, week, month, quarter, year, custom", periodType)
	}
	if !k.Valid() {
		return "", "", fmt.Errorf("invalid --kind %q. Expected one of: daily, weekly, monthly, custom", kind)
	}
	return pt, k, nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
