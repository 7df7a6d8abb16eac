package lexer

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pontaoski/lemonc/errors"
	"github.com/pontaoski/lemonc/types"
)

// Lexer recognises tokens on demand straight from the source runes. There is
// no separate tokenising pass: the parser asks for the token it wants next and
// rewinds with Reset when an alternative does not match.
type Lexer struct {
	src      []rune
	pos      int
	filename string
	// lines holds the offset of the first rune of every line.
	lines []int

	furthest int
	expected map[string]struct{}
}

func NewLexer(source string, filename string) *Lexer {
	src := []rune(source)
	lines := []int{0}
	for i, r := range src {
		if r == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Lexer{
		src:      src,
		filename: filename,
		lines:    lines,
		expected: map[string]struct{}{},
	}
}

func (l *Lexer) Mark() int {
	return l.pos
}

func (l *Lexer) Reset(mark int) {
	l.pos = mark
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) at(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) hasPrefix(s string) bool {
	i := l.pos
	for _, r := range s {
		if i >= len(l.src) || l.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (l *Lexer) indexFrom(start int, s string) int {
	needle := []rune(s)
outer:
	for i := start; i+len(needle) <= len(l.src); i++ {
		for j, r := range needle {
			if l.src[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

// SkipSpace consumes whitespace, "( *)" line comments and "( *) ... (* )"
// long comments.
func (l *Lexer) SkipSpace() {
	for l.pos < len(l.src) {
		switch {
		case unicode.IsSpace(l.src[l.pos]):
			l.pos++
		case l.hasPrefix("( *)"):
			if end := l.indexFrom(l.pos+4, "(* )"); end >= 0 {
				l.pos = end + 4
				continue
			}
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) AtEOF() bool {
	l.SkipSpace()
	if l.pos < len(l.src) {
		l.fail("end of input")
		return false
	}
	return true
}

// fail records what the grammar wanted at the current position. Only the
// expectations at the furthest position survive, which is where a PEG parse
// really broke down.
func (l *Lexer) fail(what string) {
	switch {
	case l.pos > l.furthest:
		l.furthest = l.pos
		l.expected = map[string]struct{}{what: {}}
	case l.pos == l.furthest:
		l.expected[what] = struct{}{}
	}
}

func (l *Lexer) Error() errors.SyntaxError {
	var expected []string
	for what := range l.expected {
		expected = append(expected, what)
	}
	sort.Strings(expected)

	return errors.SyntaxError{
		Expected: expected,
		Location: l.Position(l.furthest),
	}
}

func (l *Lexer) Position(offset int) types.Position {
	if offset > len(l.src) {
		offset = len(l.src)
	}
	line := sort.Search(len(l.lines), func(i int) bool { return l.lines[i] > offset }) - 1
	return types.Position{
		Line:     line + 1,
		Column:   offset - l.lines[line] + 1,
		Filename: l.filename,
	}
}

func (l *Lexer) span(from int) types.Span {
	return types.Span{From: l.Position(from), To: l.Position(l.pos)}
}

// matchWord reports whether the phrase sits at the current position as a
// whole word, without consuming it.
func (l *Lexer) matchWord(phrase string) bool {
	if !l.hasPrefix(phrase) {
		return false
	}
	return !isAlnum(l.at(len([]rune(phrase))))
}

func (l *Lexer) Keyword(k types.TokenKind) bool {
	l.SkipSpace()
	phrase := k.Spelling()
	if !l.matchWord(phrase) {
		l.fail(k.String())
		return false
	}
	l.pos += len([]rune(phrase))
	return true
}

// PeekKeyword reports whether the keyword comes next without consuming it.
func (l *Lexer) PeekKeyword(k types.TokenKind) bool {
	l.SkipSpace()
	return l.matchWord(k.Spelling())
}

// longer lists the operators that would be cut in half by matching op alone.
var longer = map[string][]string{
	"=": {"=="},
	"<": {"<="},
	">": {">="},
	"!": {"!="},
	"+": {"+="},
	"-": {"-="},
}

func (l *Lexer) Punct(op string) bool {
	l.SkipSpace()
	if !l.hasPrefix(op) {
		l.fail(strconv.Quote(op))
		return false
	}
	for _, ext := range longer[op] {
		if l.hasPrefix(ext) {
			l.fail(strconv.Quote(op))
			return false
		}
	}
	l.pos += len([]rune(op))
	return true
}

func (l *Lexer) reserved() bool {
	for _, k := range types.Reserved {
		if l.matchWord(k.Spelling()) {
			return true
		}
	}
	return false
}

func (l *Lexer) Identifier() (types.Token, bool) {
	l.SkipSpace()
	start := l.pos
	if !unicode.IsLetter(l.at(0)) || l.reserved() {
		l.fail(types.IDENT.String())
		return types.Token{}, false
	}
	for l.pos < len(l.src) && (isAlnum(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
	return types.Token{
		Kind:     types.IDENT,
		Text:     string(l.src[start:l.pos]),
		Location: l.span(start),
	}, true
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func (l *Lexer) digits() string {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

// Digits matches a bare non-negative integer, as used by array indexing.
func (l *Lexer) Digits() (types.Token, bool) {
	l.SkipSpace()
	start := l.pos
	d := l.digits()
	if d == "" {
		l.fail("integer index")
		return types.Token{}, false
	}
	return types.Token{Kind: types.NUMBER, Text: d, Location: l.span(start)}, true
}

// Number matches digit+ ("." digit+)?. The returned flag tells a decimal
// literal apart from an integer one.
func (l *Lexer) Number() (types.Token, bool, bool) {
	l.SkipSpace()
	start := l.pos
	if l.digits() == "" {
		l.fail(types.NUMBER.String())
		return types.Token{}, false, false
	}
	isFloat := false
	if l.at(0) == '.' && isDigit(l.at(1)) {
		l.pos++
		l.digits()
		isFloat = true
	}
	return types.Token{
		Kind:     types.NUMBER,
		Text:     string(l.src[start:l.pos]),
		Location: l.span(start),
	}, isFloat, true
}

// String matches a double quoted literal and returns its decoded value in
// Text.
func (l *Lexer) String() (types.Token, bool) {
	l.SkipSpace()
	start := l.pos
	if l.at(0) != '"' {
		l.fail(types.STRING.String())
		return types.Token{}, false
	}
	l.pos++

	var sb strings.Builder
	for {
		r := l.at(0)
		switch {
		case l.pos >= len(l.src):
			l.fail(`closing "`)
			l.pos = start
			return types.Token{}, false
		case r == '"':
			l.pos++
			return types.Token{Kind: types.STRING, Text: sb.String(), Location: l.span(start)}, true
		case r == '\\':
			decoded, ok := l.escape()
			if !ok {
				l.fail("escape sequence")
				l.pos = start
				return types.Token{}, false
			}
			sb.WriteRune(decoded)
		default:
			sb.WriteRune(r)
			l.pos++
		}
	}
}

func isHex(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func (l *Lexer) escape() (rune, bool) {
	switch l.at(1) {
	case 'n':
		l.pos += 2
		return '\n', true
	case '\'':
		l.pos += 2
		return '\'', true
	case '"':
		l.pos += 2
		return '"', true
	case '\\':
		l.pos += 2
		return '\\', true
	case 'u':
		if l.at(2) != '{' {
			return 0, false
		}
		n := 0
		for n < 6 && isHex(l.at(3+n)) {
			n++
		}
		if n == 0 || l.at(3+n) != '}' {
			return 0, false
		}
		hex := string(l.src[l.pos+3 : l.pos+3+n])
		code, err := strconv.ParseInt(hex, 16, 32)
		if err != nil || code > unicode.MaxRune || (code >= 0xD800 && code <= 0xDFFF) {
			return 0, false
		}
		l.pos += 4 + n
		return rune(code), true
	}
	return 0, false
}
