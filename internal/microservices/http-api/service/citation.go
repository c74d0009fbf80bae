package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"veritaslab/internal/microservices/http-api/models"
)

const (
	CitationAPA  = "apa"
	CitationABNT = "abnt"

	DefaultJournal = "VeritasLab Journal"
	unknownAuthor  = "Unknown author"
)

// CitationSource is what a reference is built from.
type CitationSource struct {
	Authors []models.Author
	Title   string
	Year    int
	Journal string
	URL     string
}

// Cite renders src in the given format.
func Cite(format string, src CitationSource) (string, error) {
	if src.Journal == "" {
		src.Journal = DefaultJournal
	}
	switch format {
	case CitationAPA:
		return FormatAPA(src), nil
	case CitationABNT:
		return FormatABNT(src), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatAPA renders "Last, F.M., & Last, F. (Year). Title. Journal. Retrieved from URL".
func FormatAPA(src CitationSource) string {
	names := make([]string, 0, len(src.Authors))
	for _, a := range src.Authors {
		last, initials := splitName(a.Name)
		if last == "" {
			continue
		}
		names = append(names, joinName(last, strings.Join(initials, "")))
	}

	var authors string
	switch len(names) {
	case 0:
		authors = unknownAuthor
	case 1:
		authors = names[0]
	default:
		authors = strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
	return fmt.Sprintf("%s (%d). %s. %s. Retrieved from %s", authors, src.Year, src.Title, src.Journal, src.URL)
}

// FormatABNT renders "LAST, F. M.; LAST, F.. TITLE. Journal, Year. Available at: URL."
func FormatABNT(src CitationSource) string {
	names := make([]string, 0, len(src.Authors))
	for _, a := range src.Authors {
		last, initials := splitName(a.Name)
		if last == "" {
			continue
		}
		for i := range initials {
			initials[i] = strings.ToUpper(initials[i])
		}
		names = append(names, joinName(strings.ToUpper(last), strings.Join(initials, " ")))
	}

	authors := unknownAuthor
	if len(names) > 0 {
		authors = strings.Join(names, "; ")
	}
	return fmt.Sprintf("%s. %s. %s, %d. Available at: %s.", authors, strings.ToUpper(src.Title), src.Journal, src.Year, src.URL)
}

// splitName returns the last word of name and the initial of every other word.
func splitName(name string) (string, []string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", nil
	}
	initials := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		r, _ := utf8.DecodeRuneInString(p)
		initials = append(initials, string(unicode.ToUpper(r))+".")
	}
	return parts[len(parts)-1], initials
}

func joinName(last, initials string) string {
	if initials == "" {
		return last
	}
	return last + ", " + initials
}
