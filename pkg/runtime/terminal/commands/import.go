package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	path    string
	session *Session
}

func NewImportCmd(session *Session) *cobra.Command {
	ic := &ImportCmd{session: session}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load businesses and their facts from a JSON file",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.path, "file", "", "Path to the JSON dataset")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(ic.path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	var dataset store.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return fmt.Errorf("failed to parse dataset %s: %w", ic.path, err)
	}

	backend, err := ic.session.backend()
	if err != nil {
		return err
	}
	if err := backend.Import(cmd.Context(), dataset); err != nil {
		return fmt.Errorf("failed to import dataset: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d businesses, %d sales, %d leads, %d orders\n",
		len(dataset.Businesses), len(dataset.Sales), len(dataset.Leads), len(dataset.Orders))
	return nil
}
