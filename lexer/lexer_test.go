package lexer

import (
	"strings"
	"testing"

	"github.com/pontaoski/lemonc/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	l := NewLexer(`Squeeze the lemon if ( *) a comment
	( *) long
	comment (* ) lemony_1 "a\n\u{1F34B}" 3.25 7`, "stdin")

	assert.True(t, l.Keyword(types.IF))

	id, ok := l.Identifier()
	require.True(t, ok)
	assert.Equal(t, "lemony_1", id.Text)
	assert.Equal(t, 3, id.Location.From.Line)

	str, ok := l.String()
	require.True(t, ok)
	assert.Equal(t, "a\n\U0001F34B", str.Text)

	num, isFloat, ok := l.Number()
	require.True(t, ok)
	assert.True(t, isFloat)
	assert.Equal(t, "3.25", num.Text)

	num, isFloat, ok = l.Number()
	require.True(t, ok)
	assert.False(t, isFloat)
	assert.Equal(t, "7", num.Text)

	assert.True(t, l.AtEOF())
}

func TestKeywordsAreWholeWords(t *testing.T) {
	l := NewLexer("chopper", "")
	assert.False(t, l.Keyword(types.BREAK))

	id, ok := l.Identifier()
	require.True(t, ok)
	assert.Equal(t, "chopper", id.Text)
}

func TestReservedWordsAreNotIdentifiers(t *testing.T) {
	for _, src := range []string{"chop", "sweet", "slice", "pour", "Squeeze the lemon if"} {
		l := NewLexer(src, "")
		_, ok := l.Identifier()
		assert.False(t, ok, src)
	}

	// part of a phrase alone is fine
	l := NewLexer("Squeeze", "")
	_, ok := l.Identifier()
	assert.True(t, ok)
}

func TestUnicodeIdentifier(t *testing.T) {
	l := NewLexer("π", "")
	id, ok := l.Identifier()
	require.True(t, ok)
	assert.Equal(t, "π", id.Text)
}

func TestPunctDoesNotSplitOperators(t *testing.T) {
	l := NewLexer("== <= +=", "")
	assert.False(t, l.Punct("="))
	assert.True(t, l.Punct("=="))
	assert.False(t, l.Punct("<"))
	assert.True(t, l.Punct("<="))
	assert.False(t, l.Punct("+"))
	assert.True(t, l.Punct("+="))
}

func TestBadEscape(t *testing.T) {
	for _, src := range []string{`"\q"`, `"\u{}"`, `"\u{110000}"`, `"\u{D800}"`, `"\u{DFFF}"`, `"open`} {
		l := NewLexer(src, "")
		_, ok := l.String()
		assert.False(t, ok, src)
		assert.Equal(t, 0, l.Mark(), src)
	}
}

func TestFurthestFailure(t *testing.T) {
	l := NewLexer("abc\n  42", "")
	_, ok := l.Identifier()
	require.True(t, ok)

	assert.False(t, l.Punct("="))
	assert.False(t, l.Keyword(types.BEGIN))

	err := l.Error()
	assert.Equal(t, 2, err.Line())
	assert.Equal(t, 3, err.Column())
	assert.Equal(t, []string{`"="`, `"BEGIN JUICING"`}, err.Expected)
}

func TestPosition(t *testing.T) {
	l := NewLexer("ab\n\nçd\n", "f.lemon")

	assert.Equal(t, types.Position{Line: 1, Column: 1, Filename: "f.lemon"}, l.Position(0))
	assert.Equal(t, types.Position{Line: 1, Column: 3, Filename: "f.lemon"}, l.Position(2))
	assert.Equal(t, types.Position{Line: 2, Column: 1, Filename: "f.lemon"}, l.Position(3))
	assert.Equal(t, types.Position{Line: 3, Column: 2, Filename: "f.lemon"}, l.Position(5))
	assert.Equal(t, types.Position{Line: 4, Column: 1, Filename: "f.lemon"}, l.Position(7))
	assert.Equal(t, types.Position{Line: 4, Column: 1, Filename: "f.lemon"}, l.Position(100))
}

func TestPositionInLargeSource(t *testing.T) {
	const lines = 20000
	l := NewLexer(strings.Repeat("x = x + 1\n", lines)+"  ?", "")

	for i := 0; i < lines; i++ {
		_, ok := l.Identifier()
		require.True(t, ok)
		require.True(t, l.Punct("="))
		_, ok = l.Identifier()
		require.True(t, ok)
		require.True(t, l.Punct("+"))
		_, _, ok = l.Number()
		require.True(t, ok)
	}
	_, ok := l.Identifier()
	assert.False(t, ok)

	err := l.Error()
	assert.Equal(t, lines+1, err.Line())
	assert.Equal(t, 3, err.Column())
}
