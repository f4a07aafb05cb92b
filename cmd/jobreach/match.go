package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	matchResumePath string
	matchJobPath    string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a resume against a job description",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchResumePath, "resume", "r", "", "path to resume text file (required)")
	matchCmd.Flags().StringVar(&matchJobPath, "job", "", "path to job description text file (required)")
	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	svc, cleanup, _, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readFileArg(matchResumePath, "resume")
	if err != nil {
		return err
	}
	jobDescription, err := readFileArg(matchJobPath, "job description")
	if err != nil {
		return err
	}

	report, err := svc.MatchScore(cmd.Context(), resume, jobDescription)
	if err != nil {
		return err
	}

	fmt.Printf("Match score: %d/100\n", report.Score)
	if len(report.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, s := range report.Strengths {
			fmt.Printf("  + %s\n", s)
		}
	}
	if len(report.Gaps) > 0 {
		fmt.Println("\nGaps:")
		for _, g := range report.Gaps {
			fmt.Printf("  - %s\n", g)
		}
	}
	return nil
}
