package main

import (
	"github.com/spf13/cobra"

	"remotejobs-engine/internal/listing"
	"remotejobs-engine/internal/match"
)

var (
	searchFilter match.RawFilter
	searchPage   listing.Page
	relatedWide  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search jobs with the listing filters",
	Long: `Search jobs the way the listing page does and print the result as JSON,
including the resolved filter.

  engine search --title "backend engineer" --location usa --experience senior
  engine search --keyword python --limit 50`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var relatedCmd = &cobra.Command{
	Use:   "related <job-id>",
	Short: "Rank jobs related to a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFilter.Title, "title", "", "job title phrase")
	f.StringVar(&searchFilter.Location, "location", "", "location slug (e.g. usa, europe)")
	f.StringVar(&searchFilter.Experience, "experience", "", "entry-level, mid-level or senior")
	f.StringVar(&searchFilter.Keyword, "keyword", "", "keyword matched against title and skills")
	f.StringVar(&searchFilter.Category, "category", "", "exact category")
	f.StringVar(&searchFilter.EmploymentType, "employment-type", "", "exact employment type")
	f.IntVar(&searchPage.Limit, "limit", 0, "page size (default from config)")
	f.IntVar(&searchPage.Offset, "offset", 0, "rows to skip")
	f.StringVar(&searchPage.Sort, "sort", "date", "date, title or company")

	relatedCmd.Flags().BoolVar(&relatedWide, "expanded", false, "use the verified-user limit")

	rootCmd.AddCommand(searchCmd, relatedCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Search(cmd.Context(), searchFilter, searchPage)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runRelated(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Related(cmd.Context(), args[0], relatedWide)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
