package commands

import (
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/runtime/terminal/export"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
	"github.com/spf13/cobra"
)

type BatchCmd struct {
	businesses string
	from       string
	to         string
	periodType string
	kind       string
	session    *Session
	reporter   *export.Reporter
}

func NewBatchCmd(session *Session, reporter *export.Reporter) *cobra.Command {
	bc := &BatchCmd{session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate reports for many businesses over the same period",
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.businesses, "businesses", "", "Comma-separated business IDs (default: every business)")
	cmd.Flags().StringVar(&bc.from, "from", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&bc.to, "to", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&bc.periodType, "period-type", "", "Period type (day, week, month, quarter, year, custom)")
	cmd.Flags().StringVar(&bc.kind, "kind", string(domain.ReportKindCustom), "Report kind (daily, weekly, monthly, custom)")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (bc *BatchCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	start, err := parseDate("from", bc.from)
	if err != nil {
		return err
	}
	end, err := parseDate("to", bc.to)
	if err != nil {
		return err
	}
	periodType, kind, err := parseKinds(bc.periodType, bc.kind)
	if err != nil {
		return err
	}
	if start.After(end) {
		return domain.ErrInvalidPeriod
	}
	backend, err := bc.session.backend()
	if err != nil {
		return err
	}

	ids := splitIDs(bc.businesses)
	if len(ids) == 0 {
		if ids, err = backend.ListBusinessIDs(ctx); err != nil {
			return fmt.Errorf("failed to list businesses: %w", err)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No businesses to report on")
		return nil
	}

	stderr := cmd.ErrOrStderr()
	results := backend.RunBatch(ctx, workflow.Batch{
		BusinessIDs: ids,
		Start:       start,
		End:         end,
		PeriodType:  periodType,
		Kind:        kind,
	}, func(p workflow.RunnerProgress) {
		fmt.Fprintf(stderr, "[%d/%d] %s: %s\n", p.Processed, p.Total, p.Last.BusinessID, p.Last.Outcome)
	})

	if err := bc.reporter.HandleBatch(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Outcome == workflow.OutcomeFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}
