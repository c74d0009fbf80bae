package command

import (
	"fmt"
	"io"
	"strings"

	"veritaslab/cmd/cli/dto"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	titleColor   = color.New(color.FgCyan, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	warnColor    = color.New(color.FgYellow)
)

const dateLayout = "2006-01-02 15:04"

func success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func separator(w io.Writer) {
	mutedColor.Fprintln(w, strings.Repeat("-", 50))
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func authorNames(authors []dto.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func printArticle(w io.Writer, a dto.Article, full bool) {
	star := ""
	if a.IsFavorited {
		star = warnColor.Sprint(" ★")
	}
	titleColor.Fprintf(w, "[%d] %s", a.ID, a.Title)
	fmt.Fprintln(w, star)
	if len(a.Authors) > 0 {
		fmt.Fprintf(w, "Authors: %s\n", authorNames(a.Authors))
	} else {
		fmt.Fprintf(w, "Authors: %s\n", deref(a.AuthorName, "Unknown author"))
	}
	mutedColor.Fprintf(w, "Published %s · %d views", a.PublishedAt.Local().Format(dateLayout), a.Views)
	if len(a.Tags) > 0 {
		mutedColor.Fprintf(w, " · %s", strings.Join(a.Tags, ", "))
	}
	fmt.Fprintln(w)
	if full {
		fmt.Fprintf(w, "\n%s\n", a.Abstract)
		if a.DOI != nil {
			fmt.Fprintf(w, "DOI: %s\n", *a.DOI)
		}
		if a.ContentURL != nil {
			fmt.Fprintf(w, "File: %s\n", *a.ContentURL)
		}
	}
}

func statusColor(status string) *color.Color {
	switch status {
	case "approved":
		return color.New(color.FgGreen)
	case "rejected":
		return color.New(color.FgRed)
	case "draft":
		return mutedColor
	default:
		return warnColor
	}
}

func printSubmission(w io.Writer, s dto.Submission, full bool) {
	titleColor.Fprintf(w, "[%d] %s ", s.ID, s.Title)
	statusColor(s.Status).Fprintf(w, "(%s)\n", s.Status)
	if s.SubmitterName != nil {
		fmt.Fprintf(w, "Submitted by: %s\n", *s.SubmitterName)
	}
	mutedColor.Fprintf(w, "Submitted %s\n", s.SubmittedAt.Local().Format(dateLayout))
	if s.ArticleID != nil {
		fmt.Fprintf(w, "Article: %d\n", *s.ArticleID)
	}
	if s.RejectionReason != nil && *s.RejectionReason != "" {
		fmt.Fprintf(w, "Reason: %s\n", *s.RejectionReason)
	}
	if full {
		if len(s.Authors) > 0 {
			fmt.Fprintf(w, "Authors: %s\n", authorNames(s.Authors))
		}
		if len(s.Keywords) > 0 {
			fmt.Fprintf(w, "Keywords: %s\n", strings.Join(s.Keywords, ", "))
		}
		if s.Area != nil {
			fmt.Fprintf(w, "Area: %s\n", *s.Area)
		}
		if s.FileURL != nil {
			fmt.Fprintf(w, "File: %s\n", *s.FileURL)
		}
		fmt.Fprintf(w, "\n%s\n", s.Abstract)
	}
}

func printComment(w io.Writer, c dto.Comment) {
	indent := ""
	if c.ParentID != nil {
		indent = "    ↳ "
	}
	name := deref(c.FullName, c.Username)
	if c.IsArticleAuthor {
		name += warnColor.Sprint(" (author)")
	}
	liked := ""
	if c.LikedByMe != nil && *c.LikedByMe {
		liked = " ♥"
	}
	fmt.Fprintf(w, "%s[%d] %s: %s\n", indent, c.ID, name, c.Content)
	mutedColor.Fprintf(w, "%s     %s · %d likes%s\n", strings.Repeat(" ", len([]rune(indent))), c.CreatedAt.Local().Format(dateLayout), c.LikesCount, liked)
}

func printNotification(w io.Writer, n dto.Notification) {
	marker := "  "
	if !n.IsRead {
		marker = warnColor.Sprint("● ")
	}
	fmt.Fprintf(w, "%s[%d] ", marker, n.ID)
	titleColor.Fprintln(w, n.Title)
	fmt.Fprintf(w, "     %s\n", strings.ReplaceAll(n.Message, "\n", "\n     "))
	mutedColor.Fprintf(w, "     %s\n", n.CreatedAt.Local().Format(dateLayout))
}
