package command

import (
	"fmt"

	"veritaslab/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"article"},
	Short:   "Browse, search and cite published articles",
}

var listArticlesCmd = &cobra.Command{
	Use:   "list",
	Short: "List published articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}

		var q dto.ArticleQuery
		q.Page, _ = cmd.Flags().GetInt("page")
		q.Search, _ = cmd.Flags().GetString("search")
		q.Areas, _ = cmd.Flags().GetStringSlice("area")
		q.Types, _ = cmd.Flags().GetStringSlice("type")
		q.Impact, _ = cmd.Flags().GetStringSlice("impact")
		q.Recent, _ = cmd.Flags().GetBool("recent")

		articles, err := newClient().ListArticles(cmd.Context(), sess, q)
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(articles) == 0 {
			fmt.Fprintln(w, "No articles found.")
			return nil
		}
		for _, a := range articles {
			printArticle(w, a, false)
			separator(w)
		}
		return nil
	},
}

var showArticleCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "article")
		if err != nil {
			return err
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}

		article, err := newClient().GetArticle(cmd.Context(), sess, id)
		if err != nil {
			return fmt.Errorf("failed to get article: %w", err)
		}
		printArticle(cmd.OutOrStdout(), *article, true)
		return nil
	},
}

var citeArticleCmd = &cobra.Command{
	Use:   "cite [id]",
	Short: "Print the APA and ABNT citations of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "article")
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		c := newClient()
		w := cmd.OutOrStdout()

		if format != "" {
			citation, err := c.Citation(cmd.Context(), id, format)
			if err != nil {
				return fmt.Errorf("failed to cite article: %w", err)
			}
			fmt.Fprintln(w, citation.Citation)
			return nil
		}

		citations, err := c.Citations(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to cite article: %w", err)
		}
		titleColor.Fprintln(w, "APA")
		fmt.Fprintln(w, citations.APA)
		titleColor.Fprintln(w, "ABNT")
		fmt.Fprintln(w, citations.ABNT)
		return nil
	},
}

var favoriteArticleCmd = &cobra.Command{
	Use:   "favorite [id]",
	Short: "Add an article to your favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "article")
		if err != nil {
			return err
		}
		sess, err := requireSession()
		if err != nil {
			return err
		}
		if err := newClient().Favorite(cmd.Context(), sess, id); err != nil {
			return fmt.Errorf("failed to favorite article: %w", err)
		}
		success(cmd.OutOrStdout(), "Article %d added to favorites", id)
		return nil
	},
}

var unfavoriteArticleCmd = &cobra.Command{
	Use:   "unfavorite [id]",
	Short: "Remove an article from your favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "article")
		if err != nil {
			return err
		}
		sess, err := requireSession()
		if err != nil {
			return err
		}
		if err := newClient().Unfavorite(cmd.Context(), sess, id); err != nil {
			return fmt.Errorf("failed to unfavorite article: %w", err)
		}
		success(cmd.OutOrStdout(), "Article %d removed from favorites", id)
		return nil
	},
}

func init() {
	articlesCmd.AddCommand(listArticlesCmd, showArticleCmd, citeArticleCmd, favoriteArticleCmd, unfavoriteArticleCmd)

	listArticlesCmd.Flags().Int("page", 1, "page number")
	listArticlesCmd.Flags().StringP("search", "s", "", "search title, abstract and author")
	listArticlesCmd.Flags().StringSlice("area", nil, "filter by area (repeatable)")
	listArticlesCmd.Flags().StringSlice("type", nil, "filter by type (repeatable)")
	listArticlesCmd.Flags().StringSlice("impact", nil, "filter by impact (repeatable)")
	listArticlesCmd.Flags().Bool("recent", false, "only articles from the last 30 days")

	citeArticleCmd.Flags().StringP("format", "f", "", "apa or abnt (both when omitted)")
}
