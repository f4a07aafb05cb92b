package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	interviewResumePath string
	interviewRole       string
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Generate interview preparation questions from a resume",
	RunE:  runInterview,
}

func init() {
	interviewCmd.Flags().StringVarP(&interviewResumePath, "resume", "r", "", "path to resume text file (required)")
	interviewCmd.Flags().StringVar(&interviewRole, "role", "", "target role to prepare for")
	interviewCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, args []string) error {
	svc, cleanup, _, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readFileArg(interviewResumePath, "resume")
	if err != nil {
		return err
	}

	prep, err := svc.InterviewQuestions(cmd.Context(), resume, interviewRole)
	if err != nil {
		return err
	}

	fmt.Println(prep)
	return nil
}
