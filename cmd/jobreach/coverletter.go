package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobreach/internal/service"
)

var (
	coverResumePath string
	coverJobTitle   string
	coverCompany    string
	coverJobPath    string
	coverTone       string
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Draft a cover letter for a job",
	RunE:  runCoverLetter,
}

func init() {
	coverLetterCmd.Flags().StringVarP(&coverResumePath, "resume", "r", "", "path to resume text file (required)")
	coverLetterCmd.Flags().StringVar(&coverJobTitle, "title", "", "job title (required)")
	coverLetterCmd.Flags().StringVar(&coverCompany, "company", "", "company name (required)")
	coverLetterCmd.Flags().StringVar(&coverJobPath, "job", "", "path to job description text file")
	coverLetterCmd.Flags().StringVar(&coverTone, "tone", "professional", "letter tone, e.g. professional, enthusiastic")
	coverLetterCmd.MarkFlagRequired("resume")
	coverLetterCmd.MarkFlagRequired("title")
	coverLetterCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	svc, cleanup, _, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readFileArg(coverResumePath, "resume")
	if err != nil {
		return err
	}

	var jobDescription string
	if coverJobPath != "" {
		jobDescription, err = readFileArg(coverJobPath, "job description")
		if err != nil {
			return err
		}
	}

	letter, err := svc.GenerateCoverLetter(cmd.Context(), service.CoverLetterRequest{
		Resume:         resume,
		JobTitle:       coverJobTitle,
		Company:        coverCompany,
		JobDescription: jobDescription,
		Tone:           coverTone,
	})
	if err != nil {
		return err
	}

	fmt.Println(letter)
	return nil
}
