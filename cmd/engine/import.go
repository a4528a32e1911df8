package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"remotejobs-engine/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import jobs from a JSON or YAML file",
	Long: `Import jobs from a file holding either a list of jobs or {"jobs": [...]}.
The format is taken from the extension (.yml/.yaml, otherwise JSON).

Records are cleaned and validated first. Invalid ones are listed and skipped;
the rest are inserted, or updated when the id already exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	jobs, err := ingest.DecodeFile(args[0])
	if err != nil {
		return err
	}

	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Import(cmd.Context(), uuid.NewString(), jobs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "read %d, added %d, updated %d, rejected %d\n",
		len(jobs), res.Added, res.Updated, len(res.Rejected))
	for _, r := range res.Rejected {
		id := r.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(out, "  #%d id=%s: %s\n", r.Index, id, r.Reason)
	}
	return nil
}
