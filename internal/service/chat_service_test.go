package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippetShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 200))
	assert.Equal(t, "", Snippet("", 200))
}

func TestSnippetTruncatesOnRunes(t *testing.T) {
	hindi := strings.Repeat("प्रधानमंत्री किसान सम्मान निधि ", 20)

	out := Snippet(hindi, 200)

	assert.True(t, utf8.ValidString(out), "truncation must not split a multi-byte rune")
	assert.Equal(t, 201, utf8.RuneCountInString(out)) // 200 runes plus the ellipsis
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestSnippetExactLengthKeepsText(t *testing.T) {
	text := strings.Repeat("क", 160)
	assert.Equal(t, text, Snippet(text, 160))
}
