package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/business-pulse/pkg/adapters"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
)

type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatHTML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q. Supported formats: text, html, json", s)
}

type TableConfig struct {
	BusinessWidth int
	OutcomeWidth  int
	ReportWidth   int
	ErrorWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		BusinessWidth: 24,
		OutcomeWidth:  10,
		ReportWidth:   36,
		ErrorWidth:    48,
	}
}

// Reporter writes generated reports and batch outcomes to the console.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report, format Format) error {
	switch format {
	case FormatHTML:
		_, err := io.WriteString(c.writer, report.ContentHTML)
		return err
	case FormatJSON:
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(adapters.MapDomainReportToAPI(report))
	default:
		_, err := io.WriteString(c.writer, report.ContentText)
		return err
	}
}

func (c *Reporter) HandleBatch(results []workflow.ItemResult) error {
	funcMap := template.FuncMap{
		"formatRow": func(business, outcome, report, errMsg string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.BusinessWidth, truncate(business, c.config.BusinessWidth),
				c.config.OutcomeWidth, outcome,
				c.config.ReportWidth, report,
				c.config.ErrorWidth, truncate(errMsg, c.config.ErrorWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.BusinessWidth+2),
				strings.Repeat("-", c.config.OutcomeWidth+2),
				strings.Repeat("-", c.config.ReportWidth+2),
				strings.Repeat("-", c.config.ErrorWidth+2))
		},
	}

	tmpl := `{{separator}}
{{formatRow "Business" "Outcome" "Report" "Error"}}
{{separator}}
{{range .}}{{formatRow .BusinessID (printf "%s" .Outcome) .ReportID .Error}}
{{end}}{{separator}}
`
	t, err := template.New("batch").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, results)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
