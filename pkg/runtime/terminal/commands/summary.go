package commands

import (
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/spf13/cobra"
)

type SummaryPrinter interface {
	HandleSummary(summary *domain.Summary) error
	HandleBrief(brief domain.Brief) error
}

type SummaryCmd struct {
	businessID string
	session    *Session
	printer    SummaryPrinter
}

func NewSummaryCmd(session *Session, printer SummaryPrinter) *cobra.Command {
	sc := &SummaryCmd{session: session, printer: printer}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the health summary of the last seven days",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.businessID, "business", "", "Business ID")
	_ = cmd.MarkFlagRequired("business")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	backend, err := sc.session.backend()
	if err != nil {
		return err
	}
	summary, err := backend.Summary(cmd.Context(), sc.businessID)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}
	return sc.printer.HandleSummary(summary)
}
