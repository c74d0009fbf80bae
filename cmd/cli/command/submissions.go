package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"veritaslab/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var submissionsCmd = &cobra.Command{
	Use:     "submissions",
	Aliases: []string{"submission", "sub"},
	Short:   "Submit manuscripts and follow their review",
}

var createSubmissionCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a manuscript for review (or save a draft)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}

		var req dto.SubmissionRequest
		req.Title, _ = cmd.Flags().GetString("title")
		req.Abstract, _ = cmd.Flags().GetString("abstract")
		req.Area, _ = cmd.Flags().GetString("area")
		req.Keywords, _ = cmd.Flags().GetStringSlice("keyword")
		req.Draft, _ = cmd.Flags().GetBool("draft")
		req.FilePath, _ = cmd.Flags().GetString("file")

		authorsFlag, _ := cmd.Flags().GetStringArray("author")
		req.Authors, err = parseAuthorFlags(authorsFlag)
		if err != nil {
			return err
		}

		submission, err := newClient().CreateSubmission(cmd.Context(), sess, req)
		if err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		if submission.Status == "draft" {
			success(cmd.OutOrStdout(), "Draft %d saved", submission.ID)
		} else {
			success(cmd.OutOrStdout(), "Submission %d sent for review", submission.ID)
		}
		return nil
	},
}

// parseAuthorFlags accepts "Name", "Name|Affiliation" or "Name|Affiliation|Email",
// or a JSON object.
func parseAuthorFlags(values []string) ([]dto.Author, error) {
	authors := make([]dto.Author, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "{") {
			var a dto.Author
			if err := json.Unmarshal([]byte(v), &a); err != nil {
				return nil, fmt.Errorf("invalid --author %q: %w", v, err)
			}
			authors = append(authors, a)
			continue
		}
		parts := strings.SplitN(v, "|", 3)
		a := dto.Author{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			a.Affiliation = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			a.Email = strings.TrimSpace(parts[2])
		}
		if a.Name == "" {
			return nil, fmt.Errorf("invalid --author %q: name is required", v)
		}
		authors = append(authors, a)
	}
	return authors, nil
}

func listSubmissions(cmd *cobra.Command, drafts bool) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	c := newClient()
	list := c.MySubmissions
	if drafts {
		list = c.Drafts
	}
	submissions, err := list(cmd.Context(), sess)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(submissions) == 0 {
		fmt.Fprintln(w, "No submissions found.")
		return nil
	}
	for _, s := range submissions {
		printSubmission(w, s, false)
		separator(w)
	}
	return nil
}

var mySubmissionsCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listSubmissions(cmd, false)
	},
}

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List your drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listSubmissions(cmd, true)
	},
}

var showSubmissionCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "submission")
		if err != nil {
			return err
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}

		submission, err := newClient().GetSubmission(cmd.Context(), sess, id)
		if err != nil {
			return fmt.Errorf("failed to get submission: %w", err)
		}
		printSubmission(cmd.OutOrStdout(), *submission, true)
		return nil
	},
}

var deleteSubmissionCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one of your submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "submission")
		if err != nil {
			return err
		}
		sess, err := requireSession()
		if err != nil {
			return err
		}
		if err := newClient().DeleteSubmission(cmd.Context(), sess, id); err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		success(cmd.OutOrStdout(), "Submission %d deleted", id)
		return nil
	},
}

func init() {
	submissionsCmd.AddCommand(createSubmissionCmd, mySubmissionsCmd, draftsCmd, showSubmissionCmd, deleteSubmissionCmd)

	createSubmissionCmd.Flags().StringP("title", "t", "", "manuscript title")
	createSubmissionCmd.Flags().StringP("abstract", "a", "", "abstract (required unless --draft)")
	createSubmissionCmd.Flags().String("area", "", "knowledge area")
	createSubmissionCmd.Flags().StringSliceP("keyword", "k", nil, "keyword (repeatable or comma separated)")
	createSubmissionCmd.Flags().StringArray("author", nil, `co-author as "Name|Affiliation|Email" (repeatable)`)
	createSubmissionCmd.Flags().StringP("file", "f", "", "manuscript file (pdf, jpeg, png or webp)")
	createSubmissionCmd.Flags().Bool("draft", false, "save as draft instead of sending for review")
	createSubmissionCmd.MarkFlagRequired("title")
}
