package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/insight"
)

// Reporter outputs summaries and briefs to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) HandleSummary(summary *domain.Summary) error {
	tmpl := `Business {{.BusinessID}}
Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}}
Health: {{.HealthScore}}/100 ({{.LabelText}})
{{range $key, $value := .KeyMetrics}}
{{$key}}: {{printf "%.2f" $value}}{{end}}
{{if .KPIProgress.HasPlan}}{{with .KPIProgress.Leads}}
Plan: {{printf "%.0f" .Actual}} of {{printf "%.0f" .Planned}} leads, {{printf "%.1f" .Percent}}% ({{.Status}})
{{end}}{{else}}
{{.KPIProgress.Message}}
{{end}}`
	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, summary)
}

func (c *Reporter) HandleBrief(brief domain.Brief) error {
	text, err := insight.RenderBrief(brief)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.writer, text)
	return err
}
