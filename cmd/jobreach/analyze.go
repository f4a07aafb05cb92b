package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzeResumePath string
	analyzeRole       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Review a resume with AI",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumePath, "resume", "r", "", "path to resume text file (required)")
	analyzeCmd.Flags().StringVar(&analyzeRole, "role", "", "target role to review against")
	analyzeCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, cleanup, _, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readFileArg(analyzeResumePath, "resume")
	if err != nil {
		return err
	}

	analysis, err := svc.AnalyzeResume(cmd.Context(), resume, analyzeRole)
	if err != nil {
		return err
	}

	fmt.Println(analysis)
	return nil
}
