package dto

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"AI", "Machine Learning", "ethics"}, ParseKeywords(" AI, Machine Learning ,,ethics, "))
	assert.Empty(t, ParseKeywords(""))
}

func TestParseAuthors(t *testing.T) {
	authors, err := ParseAuthors(`[{"name":" Ada Lovelace ","affiliation":"UCL"},{"name":"  "}]`)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Ada Lovelace", authors[0].Name)
	assert.Equal(t, "UCL", authors[0].Affiliation)

	empty, err := ParseAuthors("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseAuthors(`{"name":"not an array"}`)
	assert.Error(t, err)
}

func TestFormatValidationErrors_UsesWireNames(t *testing.T) {
	req := RegisterRequest{Username: "ab", Email: "nope", Password: "123"}
	err := binding.Validator.ValidateStruct(&req)
	require.Error(t, err)

	fields := map[string]string{}
	for _, fe := range FormatValidationErrors(err) {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be at least 3 characters long", fields["username"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 6 characters long", fields["password"])
}

func TestFormatValidationErrors_NotValidation(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(errors.New("boom")))
}
