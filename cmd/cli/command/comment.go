package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write article comments",
}

var listCommentsCmd = &cobra.Command{
	Use:   "list [article-id]",
	Short: "Show the comment thread of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		articleID, err := parseIDArg(args[0], "article")
		if err != nil {
			return err
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}

		comments, err := newClient().Comments(cmd.Context(), sess, articleID)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(comments) == 0 {
			fmt.Fprintln(w, "No comments yet.")
			return nil
		}
		for _, c := range comments {
			printComment(w, c)
		}
		return nil
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add [article-id] [content]",
	Short: "Comment on an article, or reply with --reply-to",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		articleID, err := parseIDArg(args[0], "article")
		if err != nil {
			return err
		}
		sess, err := requireSession()
		if err != nil {
			return err
		}

		var parentID *int64
		if replyTo, _ := cmd.Flags().GetInt64("reply-to"); replyTo > 0 {
			parentID = &replyTo
		}

		content := strings.Join(args[1:], " ")
		comment, err := newClient().AddComment(cmd.Context(), sess, articleID, content, parentID)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		success(cmd.OutOrStdout(), "Comment %d posted", comment.ID)
		return nil
	},
}

var likeCommentCmd = &cobra.Command{
	Use:   "like [comment-id]",
	Short: "Like a comment (--undo to remove the like)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseIDArg(args[0], "comment")
		if err != nil {
			return err
		}
		sess, err := requireSession()
		if err != nil {
			return err
		}

		c := newClient()
		likes := c.LikeComment
		if undo, _ := cmd.Flags().GetBool("undo"); undo {
			likes = c.UnlikeComment
		}
		count, err := likes(cmd.Context(), sess, commentID)
		if err != nil {
			return fmt.Errorf("failed to update like: %w", err)
		}
		success(cmd.OutOrStdout(), "Comment %d now has %d likes", commentID, count)
		return nil
	},
}

func init() {
	commentsCmd.AddCommand(listCommentsCmd, addCommentCmd, likeCommentCmd)

	addCommentCmd.Flags().Int64("reply-to", 0, "ID of the comment to reply to")
	likeCommentCmd.Flags().Bool("undo", false, "remove your like")
}
