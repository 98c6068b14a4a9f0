package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type BriefCmd struct {
	businessID string
	date       string
	session    *Session
	printer    SummaryPrinter
	now        func() time.Time
}

func NewBriefCmd(session *Session, printer SummaryPrinter) *cobra.Command {
	bc := &BriefCmd{session: session, printer: printer, now: time.Now}
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Show the daily brief of a business",
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.businessID, "business", "", "Business ID")
	cmd.Flags().StringVar(&bc.date, "date", "", "Day to brief (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("business")

	return cmd
}

func (bc *BriefCmd) run(cmd *cobra.Command, _ []string) error {
	day := bc.now().UTC()
	if bc.date != "" {
		parsed, err := parseDate("date", bc.date)
		if err != nil {
			return err
		}
		day = parsed
	}

	backend, err := bc.session.backend()
	if err != nil {
		return err
	}
	brief, err := backend.Brief(cmd.Context(), bc.businessID, day)
	if err != nil {
		return fmt.Errorf("failed to compose brief: %w", err)
	}
	return bc.printer.HandleBrief(brief)
}
