package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
)

var labelEmoji = map[domain.HealthLabel]string{
	domain.HealthExcellent: "🟢",
	domain.HealthGood:      "🔵",
	domain.HealthAverage:   "🟡",
	domain.HealthPoor:      "🔴",
}

type keyMetric struct {
	Name  string
	Value string
}

// view is the already-formatted content shared by every encoding.
type view struct {
	BusinessName    string
	Kind            domain.ReportKind
	Start, End      string
	Days            int
	Score           int
	Emoji           string
	Label           string
	Color           domain.HealthColor
	KeyMetrics      []keyMetric
	Insights        []domain.Insight
	Recommendations []domain.Recommendation
	KPI             []domain.NamedAchievement
	ExpectedKPI     float64
	GeneratedAt     string
}

// Renderer turns a computed report into self-contained text and HTML. It
// only reads the report and never touches a data source.
type Renderer struct {
	topInsights        int
	topRecommendations int
}

func NewRenderer(settings Settings) *Renderer {
	return &Renderer{
		topInsights:        settings.TopInsights,
		topRecommendations: settings.TopRecommendations,
	}
}

func (rd *Renderer) view(r *domain.Report) (view, error) {
	if r.Metrics == nil || r.Health == nil {
		return view{}, fmt.Errorf("report %s has no computed content", r.ID)
	}
	m := r.Metrics
	generated := r.CreatedAt
	if r.CompletedAt != nil {
		generated = *r.CompletedAt
	}

	v := view{
		BusinessName: r.BusinessName,
		Kind:         r.Kind,
		Start:        r.Period.Start.Format(time.DateOnly),
		End:          r.Period.End.Format(time.DateOnly),
		Days:         r.Period.Days(),
		Score:        r.Health.Score,
		Emoji:        labelEmoji[r.Health.Label],
		Label:        r.Health.LabelText,
		Color:        r.Health.Color,
		KeyMetrics: []keyMetric{
			{"Sales", fmt.Sprintf("%d", m.Sales.TotalSales)},
			{"Revenue", fmt.Sprintf("%.2f", m.Sales.TotalRevenue)},
			{"Average check", fmt.Sprintf("%.2f", m.Sales.AverageCheck)},
			{"Leads", fmt.Sprintf("%d", m.Marketing.TotalLeads)},
			{"Conversion", fmt.Sprintf("%.2f%%", m.Marketing.ConversionRate)},
			{"Ad spend", fmt.Sprintf("%.2f", m.Marketing.AdSpend)},
			{"ROI", fmt.Sprintf("%.2f%%", m.Financial.ROI)},
			{"Profit", fmt.Sprintf("%.2f", m.Financial.Profit)},
		},
		Insights:        head(r.Insights, rd.topInsights),
		Recommendations: head(r.Recommendations, rd.topRecommendations),
		KPI:             m.KPIProgress.Achievements(),
		ExpectedKPI:     m.KPIProgress.ExpectedProgress,
		GeneratedAt:     generated.UTC().Format("2006-01-02 15:04 MST"),
	}
	return v, nil
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

var textTemplate = template.Must(template.New("report").Parse(`Business health report: {{.BusinessName}}
Period: {{.Start}} to {{.End}} ({{.Days}} days, {{.Kind}})

Health score: {{.Emoji}} {{.Score}}/100 ({{.Label}})

Key metrics:
{{- range .KeyMetrics}}
- {{.Name}}: {{.Value}}
{{- end}}
{{- if .Insights}}

Insights:
{{- range .Insights}}
- {{.Title}}: {{.Description}}
{{- end}}
{{- end}}
{{- if .Recommendations}}

Recommendations:
{{- range .Recommendations}}
- [{{.Priority}}] {{.Title}}: {{.Description}}
{{- end}}
{{- end}}
{{- if .KPI}}

Plan progress (expected {{printf "%.1f" .ExpectedKPI}}%):
{{- range .KPI}}
- {{.Name}}: {{printf "%.1f" .Percent}}% of plan ({{.Status}})
{{- end}}
{{- end}}

Generated at {{.GeneratedAt}}
`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("report").Parse(`<div class="health-report">
<h1>Business health report: {{.BusinessName}}</h1>
<p class="period">{{.Start}} to {{.End}} ({{.Days}} days, {{.Kind}})</p>
<div class="health-score health-{{.Color}}"><span class="emoji">{{.Emoji}}</span> <strong>{{.Score}}</strong>/100 <span class="label">{{.Label}}</span></div>
<h2>Key metrics</h2>
<ul class="metrics">
{{- range .KeyMetrics}}
<li><span class="name">{{.Name}}</span>: <span class="value">{{.Value}}</span></li>
{{- end}}
</ul>
{{- if .Insights}}
<h2>Insights</h2>
<ul class="insights">
{{- range .Insights}}
<li class="priority-{{.Priority}}"><strong>{{.Title}}</strong> {{.Description}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .Recommendations}}
<h2>Recommendations</h2>
<ul class="recommendations">
{{- range .Recommendations}}
<li class="priority-{{.Priority}}"><strong>{{.Title}}</strong> {{.Description}}{{if .ActionURL}} <a href="{{.ActionURL}}">Open</a>{{end}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .KPI}}
<h2>Plan progress</h2>
<p>Expected progress: {{printf "%.1f" .ExpectedKPI}}%</p>
<table class="kpi">
<tr><th>Metric</th><th>Actual</th><th>Planned</th><th>Progress</th><th>Status</th></tr>
{{- range .KPI}}
<tr class="status-{{.Status}}"><td>{{.Name}}</td><td>{{printf "%.2f" .Actual}}</td><td>{{printf "%.2f" .Planned}}</td><td>{{printf "%.1f" .Percent}}%</td><td>{{.Status}}</td></tr>
{{- end}}
</table>
{{- end}}
<p class="footer">Generated at {{.GeneratedAt}}</p>
</div>
`))

func (rd *Renderer) Text(r *domain.Report) (string, error) {
	v, err := rd.view(r)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := textTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to render text: %w", err)
	}
	return buf.String(), nil
}

func (rd *Renderer) HTML(r *domain.Report) (string, error) {
	v, err := rd.view(r)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}
