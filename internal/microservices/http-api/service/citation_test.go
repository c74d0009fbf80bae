package service

import (
	"testing"

	"veritaslab/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func citationSource() CitationSource {
	return CitationSource{
		Authors: []models.Author{{Name: "Ada King Lovelace"}, {Name: "alan turing"}},
		Title:   "Notes on the Analytical Engine",
		Year:    2024,
		URL:     "https://veritas.example/detalhes.html?id=7",
	}
}

func TestCite_APA(t *testing.T) {
	got, err := Cite(CitationAPA, citationSource())
	require.NoError(t, err)
	assert.Equal(t,
		"Lovelace, A.K., & turing, A. (2024). Notes on the Analytical Engine. VeritasLab Journal. Retrieved from https://veritas.example/detalhes.html?id=7",
		got)
}

func TestCite_ABNT(t *testing.T) {
	got, err := Cite(CitationABNT, citationSource())
	require.NoError(t, err)
	assert.Equal(t,
		"LOVELACE, A. K.; TURING, A.. NOTES ON THE ANALYTICAL ENGINE. VeritasLab Journal, 2024. Available at: https://veritas.example/detalhes.html?id=7.",
		got)
}

func TestCite_SingleAuthorAndCustomJournal(t *testing.T) {
	src := citationSource()
	src.Authors = src.Authors[:1]
	src.Journal = "Annals"

	got, err := Cite(CitationAPA, src)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace, A.K. (2024). Notes on the Analytical Engine. Annals. Retrieved from https://veritas.example/detalhes.html?id=7", got)
}

func TestCite_NoAuthors(t *testing.T) {
	src := citationSource()
	src.Authors = nil

	assert.Contains(t, FormatAPA(src), "Unknown author (2024)")
	assert.Contains(t, FormatABNT(src), "Unknown author. NOTES")
}

func TestCite_UnknownFormat(t *testing.T) {
	_, err := Cite("mla", citationSource())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
