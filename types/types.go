package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	IDENT
	NUMBER
	STRING

	// keyword phrases
	FUNCTION
	IF
	ELSEIF
	ELSE
	WHILE
	FOR
	BEGIN
	END
	SWITCH
	CASE
	DEFAULT
	RETURN
	BREAK
	CONTINUE
	PRINT
	TYPEOF
	CONST
	STATIC
	IMPORT
	FROM
	CLASS
	EXTENDS
	CONSTRUCTOR
	TRUE
	FALSE
	KEY

	// type names
	INTTYPE
	FLOATTYPE
	BOOLTYPE
	STRINGTYPE
	VOIDTYPE
)

var spellings = map[TokenKind]string{
	FUNCTION:    "When life gives you lemons try",
	IF:          "Squeeze the lemon if",
	ELSEIF:      "Keep juicing if",
	ELSE:        "Toss the lemon and do",
	WHILE:       "Drink the lemonade while",
	FOR:         "forEachLemon",
	BEGIN:       "BEGIN JUICING",
	END:         "END JUICING",
	SWITCH:      "Pick",
	CASE:        "lemonCase",
	DEFAULT:     "citrusLimon",
	RETURN:      "you get lemonade and",
	BREAK:       "chop",
	CONTINUE:    "nextLemon",
	PRINT:       "pour",
	TYPEOF:      "species",
	CONST:       "lemonStain",
	STATIC:      "trunk",
	IMPORT:      "receive",
	FROM:        "from",
	CLASS:       "Limon",
	EXTENDS:     "branches",
	CONSTRUCTOR: "plant",
	TRUE:        "sweet",
	FALSE:       "sour",
	KEY:         "key",
	INTTYPE:     "slice",
	FLOATTYPE:   "dontUseMeForEyeDrops",
	BOOLTYPE:    "taste",
	STRINGTYPE:  "pulp",
	VOIDTYPE:    "noLemon",
}

// Reserved lists the kinds an identifier may never spell.
var Reserved = []TokenKind{
	INTTYPE, FLOATTYPE, BOOLTYPE, STRINGTYPE, VOIDTYPE,
	PRINT, TYPEOF, BEGIN, END, SWITCH, BREAK, CASE, DEFAULT, CLASS,
	CONST, STATIC, FOR, CONTINUE, TRUE, FALSE, IMPORT,
	FUNCTION, IF, ELSEIF, ELSE, WHILE, RETURN,
}

// Spelling is the exact source text of a keyword kind.
func (t TokenKind) Spelling() string {
	return spellings[t]
}

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:     "EOF",
		ILLEGAL: "ILLEGAL",
		IDENT:   "identifier",
		NUMBER:  "number",
		STRING:  "string",
	}
	if s, ok := data[t]; ok {
		return s
	}
	if s, ok := spellings[t]; ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("Line %d, col %d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s: Line %d, col %d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Text     string
	Location Span
}
