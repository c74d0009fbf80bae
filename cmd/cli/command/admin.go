package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Review submissions (admins only)",
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List submissions waiting for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")

		submissions, err := newClient().AdminSubmissions(cmd.Context(), sess, status)
		if err != nil {
			return fmt.Errorf("failed to list submissions: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(submissions) == 0 {
			fmt.Fprintln(w, "Nothing to review.")
			return nil
		}
		for _, s := range submissions {
			printSubmission(w, s, false)
			separator(w)
		}
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve [submission-id]",
	Short: "Approve a submission and publish it",
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

		article, err := newClient().Approve(cmd.Context(), sess, id)
		if err != nil {
			return fmt.Errorf("failed to approve submission: %w", err)
		}
		success(cmd.OutOrStdout(), "Submission %d published as article %d", id, article.ID)
		return nil
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject [submission-id]",
	Short: "Reject a submission",
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
		reason, _ := cmd.Flags().GetString("reason")

		if _, err := newClient().Reject(cmd.Context(), sess, id, reason); err != nil {
			return fmt.Errorf("failed to reject submission: %w", err)
		}
		success(cmd.OutOrStdout(), "Submission %d rejected", id)
		return nil
	},
}

func init() {
	adminCmd.AddCommand(pendingCmd, approveCmd, rejectCmd)

	pendingCmd.Flags().String("status", "pending", "draft, pending, approved or rejected")
	rejectCmd.Flags().StringP("reason", "r", "", "reason shown to the author")
}
