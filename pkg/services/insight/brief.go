package insight

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"text/template"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/facts"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BriefComposer builds the daily digest of orders, lost opportunities and
// leads waiting for an answer.
type BriefComposer struct {
	facts    facts.Reader
	settings Settings
	now      func() time.Time
}

func NewBriefComposer(reader facts.Reader, settings Settings, now func() time.Time) *BriefComposer {
	if now == nil {
		now = time.Now
	}
	return &BriefComposer{facts: reader, settings: settings, now: now}
}

func (c *BriefComposer) Compose(ctx context.Context, business domain.Business, day time.Time) (domain.Brief, error) {
	start := domain.Day(day)
	end := start.AddDate(0, 0, 1)
	asOf := c.now().UTC()
	if asOf.After(end) {
		asOf = end
	}

	var (
		leads, open []domain.Lead
		orders      []domain.Order
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leads, err = c.facts.ListLeads(gCtx, business.ID, start, end)
		return wrap("leads", err)
	})
	g.Go(func() (err error) {
		orders, err = c.facts.ListOrders(gCtx, business.ID, start, end)
		return wrap("orders", err)
	})
	g.Go(func() (err error) {
		open, err = c.facts.ListOpenLeads(gCtx, business.ID, asOf.Add(-c.settings.StaleLeadAge))
		return wrap("open leads", err)
	})
	if err := g.Wait(); err != nil {
		return domain.Brief{}, err
	}

	brief := domain.Brief{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		Date:         start,
		Orders:       len(orders),
		NewLeads:     len(leads),
		Attribution:  attribution(orders),
		Lost:         []domain.LostOpportunity{},
		Stale:        []domain.StaleLead{},
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(o.Total))
	}
	brief.Revenue = revenue.Round(2).InexactFloat64()

	for _, l := range leads {
		if l.Status == domain.LeadStatusLost {
			brief.Lost = append(brief.Lost, domain.LostOpportunity{LeadID: l.ID, Source: sourceOf(l.Source), Reason: l.LostReason})
		}
	}
	for _, l := range open {
		brief.Stale = append(brief.Stale, domain.StaleLead{
			LeadID: l.ID,
			Source: sourceOf(l.Source),
			Status: l.Status,
			Age:    asOf.Sub(l.CreatedAt).Truncate(time.Hour),
		})
	}

	brief.Actions = actions(brief)
	return brief, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}

func sourceOf(s string) string {
	if s == "" {
		return "direct"
	}
	return s
}

func attribution(orders []domain.Order) []domain.SourceAttribution {
	type agg struct {
		orders  int
		revenue decimal.Decimal
	}
	bySource := map[string]*agg{}
	for _, o := range orders {
		src := sourceOf(o.UTMSource)
		a, ok := bySource[src]
		if !ok {
			a = &agg{revenue: decimal.Zero}
			bySource[src] = a
		}
		a.orders++
		a.revenue = a.revenue.Add(decimal.NewFromFloat(o.Total))
	}

	out := make([]domain.SourceAttribution, 0, len(bySource))
	for src, a := range bySource {
		out = append(out, domain.SourceAttribution{Source: src, Orders: a.orders, Revenue: a.revenue.Round(2).InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// actions checks the brief sections in a fixed order, like the report rules.
func actions(b domain.Brief) []domain.ActionItem {
	var items []domain.ActionItem
	if n := len(b.Stale); n > 0 {
		items = append(items, domain.ActionItem{
			Title:    fmt.Sprintf("Follow up on %d waiting leads", n),
			Detail:   fmt.Sprintf("The oldest has been waiting %s.", b.Stale[0].Age),
			Priority: domain.PriorityHigh,
		})
	}
	if n := len(b.Lost); n > 0 {
		items = append(items, domain.ActionItem{
			Title:    fmt.Sprintf("Review %d lost opportunities", n),
			Detail:   "Check the loss reasons for a pattern in price, timing or channel.",
			Priority: domain.PriorityMedium,
		})
	}
	if b.Orders == 0 {
		items = append(items, domain.ActionItem{
			Title:    "No orders today",
			Detail:   "Check that the storefront and payment flow work.",
			Priority: domain.PriorityHigh,
		})
	}
	if len(b.Attribution) > 0 {
		top := b.Attribution[0]
		items = append(items, domain.ActionItem{
			Title:    "Strongest source: " + top.Source,
			Detail:   fmt.Sprintf("%d orders for %.2f came from %s.", top.Orders, top.Revenue, top.Source),
			Priority: domain.PriorityMedium,
		})
	}
	if len(items) == 0 {
		items = append(items, domain.ActionItem{
			Title:    "Keep the momentum",
			Detail:   "Nothing needs attention today.",
			Priority: domain.PriorityMedium,
		})
	}
	return items
}

var briefTemplate = template.Must(template.New("brief").Parse(`Daily brief: {{.BusinessName}} ({{.Date.Format "2006-01-02"}})

Orders: {{.Orders}}, revenue {{printf "%.2f" .Revenue}}, new leads: {{.NewLeads}}
{{- if .Attribution}}

Where orders came from:
{{- range .Attribution}}
- {{.Source}}: {{.Orders}} orders, {{printf "%.2f" .Revenue}}
{{- end}}
{{- end}}
{{- if .Lost}}

Lost opportunities:
{{- range .Lost}}
- {{.LeadID}} ({{.Source}}){{if .Reason}}: {{.Reason}}{{end}}
{{- end}}
{{- end}}
{{- if .Stale}}

Waiting for an answer:
{{- range .Stale}}
- {{.LeadID}} ({{.Source}}, {{.Status}}) for {{.Age}}
{{- end}}
{{- end}}

Actions:
{{- range .Actions}}
- [{{.Priority}}] {{.Title}}: {{.Detail}}
{{- end}}
`))

func RenderBrief(b domain.Brief) (string, error) {
	var buf bytes.Buffer
	if err := briefTemplate.Execute(&buf, b); err != nil {
		return "", fmt.Errorf("failed to render brief: %w", err)
	}
	return buf.String(), nil
}
