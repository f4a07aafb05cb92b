package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobreach/internal/model"
)

var (
	searchTerm     string
	searchLocation string
	searchJobType  string
	searchPage     int
	searchPerPage  int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job boards for a term",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchTerm, "term", "t", "", "search term (required)")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "location filter")
	searchCmd.Flags().StringVar(&searchJobType, "type", "", "job type: full-time, part-time, contract, internship")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&searchPerPage, "per-page", 10, "results per page")
	searchCmd.MarkFlagRequired("term")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, cleanup, _, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.SearchJobs(cmd.Context(), model.SearchQuery{
		Term:     searchTerm,
		Location: searchLocation,
		JobType:  searchJobType,
		Page:     searchPage,
		PerPage:  searchPerPage,
	})
	if err != nil {
		if errors.Is(err, model.ErrNoProviders) {
			return fmt.Errorf("no job providers configured; add jsearch or adzuna credentials to the config")
		}
		return err
	}

	printSearchResult(result)
	return nil
}

func printSearchResult(result model.SearchResult) {
	if len(result.Listings) == 0 {
		fmt.Println("No matches.")
	}
	for i, l := range result.Listings {
		fmt.Printf("%2d. %s - %s\n", i+1, l.Title, l.Company)
		if l.Location != "" {
			fmt.Printf("    %s\n", l.Location)
		}
		if l.SalaryText != "" {
			fmt.Printf("    %s\n", l.SalaryText)
		}
		if l.PostedAt != nil {
			fmt.Printf("    posted %s\n", l.PostedAt.Format("2006-01-02"))
		}
		fmt.Printf("    %s  [%s]\n", l.ApplyLink, l.Source)
	}
	if result.HasMore {
		fmt.Printf("\nMore results on page %d.\n", result.Page+1)
	}
	for _, pe := range result.ProviderErrors {
		fmt.Printf("note: %s returned no results (%s)\n", pe.Provider, pe.Message)
	}
}
