package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreamble_DefaultFont(t *testing.T) {
	p, err := Preamble("")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p, `\documentclass{article}`))
	assert.True(t, strings.HasSuffix(p, "\\setcounter{page}{1}\n"))
	assert.Contains(t, p, `\newfontfamily\hebrewfont[Script=Hebrew]{Ezra SIL}`)
	assert.Contains(t, p, `\setmainfont{Ezra SIL}`)
	assert.Contains(t, p, `\setmainlanguage{hebrew}`)
	assert.Contains(t, p, "\\begin{document}\n\\tableofcontents\n")
	assert.NotContains(t, p, "<<")
}

func TestPreamble_CustomFont(t *testing.T) {
	p, err := Preamble("SBL Hebrew")
	require.NoError(t, err)
	assert.Contains(t, p, `\englishfont{SBL Hebrew}`)
	assert.NotContains(t, p, DefaultFont)
}

func TestPreamble_RejectsMarkupInFont(t *testing.T) {
	_, err := Preamble(`Evil}\input{x`)
	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
}
