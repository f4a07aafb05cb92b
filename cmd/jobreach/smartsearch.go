package main

import (
	"github.com/spf13/cobra"
)

var (
	smartResumePath string
	smartLocation   string
	smartJobType    string
	smartPage       int
	smartPerPage    int
)

var smartSearchCmd = &cobra.Command{
	Use:   "smart-search",
	Short: "Search job boards using skills extracted from a resume",
	RunE:  runSmartSearch,
}

func init() {
	smartSearchCmd.Flags().StringVarP(&smartResumePath, "resume", "r", "", "path to resume text file (required)")
	smartSearchCmd.Flags().StringVarP(&smartLocation, "location", "l", "", "location filter")
	smartSearchCmd.Flags().StringVar(&smartJobType, "type", "", "job type: full-time, part-time, contract, internship")
	smartSearchCmd.Flags().IntVar(&smartPage, "page", 1, "result page")
	smartSearchCmd.Flags().IntVar(&smartPerPage, "per-page", 10, "results per page")
	smartSearchCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(smartSearchCmd)
}

func runSmartSearch(cmd *cobra.Command, args []string) error {
	svc, cleanup, _, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readFileArg(smartResumePath, "resume")
	if err != nil {
		return err
	}

	result, err := svc.SmartSearch(cmd.Context(), resume, smartLocation, smartJobType, smartPage, smartPerPage)
	if err != nil {
		return err
	}

	printSearchResult(result)
	return nil
}
