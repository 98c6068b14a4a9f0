package commands

import (
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/runtime/terminal/export"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/spf13/cobra"
)

type GenerateCmd struct {
	businessID string
	from       string
	to         string
	periodType string
	kind       string
	format     string
	publish    bool
	session    *Session
	reporter   *export.Reporter
}

func NewGenerateCmd(session *Session, reporter *export.Reporter) *cobra.Command {
	gc := &GenerateCmd{session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store a health report for one business",
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.businessID, "business", "", "Business ID")
	cmd.Flags().StringVar(&gc.from, "from", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.to, "to", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.periodType, "period-type", "", "Period type (day, week, month, quarter, year, custom)")
	cmd.Flags().StringVar(&gc.kind, "kind", string(domain.ReportKindCustom), "Report kind (daily, weekly, monthly, custom)")
	cmd.Flags().StringVar(&gc.format, "format", string(export.FormatText), "Output format (text, html, json)")
	cmd.Flags().BoolVar(&gc.publish, "publish", false, "Upload the report artifacts to S3")

	_ = cmd.MarkFlagRequired("business")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, err := export.ParseFormat(gc.format)
	if err != nil {
		return err
	}
	start, err := parseDate("from", gc.from)
	if err != nil {
		return err
	}
	end, err := parseDate("to", gc.to)
	if err != nil {
		return err
	}
	periodType, kind, err := parseKinds(gc.periodType, gc.kind)
	if err != nil {
		return err
	}
	backend, err := gc.session.backend()
	if err != nil {
		return err
	}

	rep, err := backend.Generate(ctx, report.Request{
		BusinessID: gc.businessID,
		Start:      start,
		End:        end,
		PeriodType: periodType,
		Kind:       kind,
	})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if gc.publish {
		if err := backend.Publish(ctx, rep); err != nil {
			return fmt.Errorf("failed to publish report %s: %w", rep.ID, err)
		}
	}

	return gc.reporter.Handle(rep, format)
}
