package parser

import (
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"

	"github.com/jward/qmlhover/internal/ast"
)

const (
	whitespaceToken = iota
	lineCommentToken
	blockCommentToken
	doubleQuotedToken
	singleQuotedToken
	numberToken
	identifierToken
	punctuatorToken
	anyToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var lineCommentMatcher = parsly.NewToken(lineCommentToken, "LineComment", &lineCommentMatch{})
var blockCommentMatcher = parsly.NewToken(blockCommentToken, "BlockComment", matcher.NewSeqBlock("/*", "*/"))
var doubleQuotedMatcher = parsly.NewToken(doubleQuotedToken, "DoubleQuote", matcher.NewBlock('"', '"', '\\'))
var singleQuotedMatcher = parsly.NewToken(singleQuotedToken, "SingleQuote", matcher.NewBlock('\'', '\'', '\\'))
var numberMatcher = parsly.NewToken(numberToken, "Number", &numberMatch{})
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})
var punctuatorMatcher = parsly.NewToken(punctuatorToken, "Punctuator", &punctuatorMatch{})
var anyMatcher = parsly.NewToken(anyToken, "Any", &anyMatch{})

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	span ast.Span
	// nl is set when a line break separates this token from the previous one.
	nl bool
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// tokenize splits src into tokens, dropping comments and whitespace.
func tokenize(src []byte) []token {
	cursor := parsly.NewCursor("", src, 0)
	var out []token
	prevEnd := 0
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAfterOptional(whitespaceMatcher,
			lineCommentMatcher,
			blockCommentMatcher,
			doubleQuotedMatcher,
			singleQuotedMatcher,
			numberMatcher,
			identifierMatcher,
			punctuatorMatcher,
			anyMatcher,
		)
		if matched.Code == parsly.EOF || matched.Code == parsly.Invalid {
			break
		}
		text := matched.Text(cursor)
		span := ast.Span{Begin: matched.Offset, End: matched.Offset + len(text)}
		var kind tokenKind
		switch matched.Code {
		case lineCommentToken, blockCommentToken:
			continue
		case doubleQuotedToken, singleQuotedToken:
			kind = tokString
		case numberToken:
			kind = tokNumber
		case identifierToken:
			kind = tokIdent
		case punctuatorToken:
			kind = tokPunct
		default:
			kind = tokInvalid
		}
		out = append(out, token{
			kind: kind,
			text: text,
			span: span,
			nl:   len(out) == 0 || strings.ContainsRune(string(src[prevEnd:span.Begin]), '\n'),
		})
		prevEnd = span.End
	}
	out = append(out, token{kind: tokEOF, span: ast.Span{Begin: len(src), End: len(src)}, nl: true})
	return out
}

type lineCommentMatch struct{}

func (l *lineCommentMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	if pos+1 >= cursor.InputSize || cursor.Input[pos] != '/' || cursor.Input[pos+1] != '/' {
		return 0
	}
	end := pos + 2
	for end < cursor.InputSize && cursor.Input[end] != '\n' {
		end++
	}
	return end - pos
}

type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	if !isIdentifierStart(cursor.Input[cursor.Pos]) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		pos++
	}
	return pos - cursor.Pos
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// numberMatch accepts decimal literals with an optional fraction and
// exponent, and 0x hex literals. Signs are operators, not part of the number.
type numberMatch struct{}

func (n *numberMatch) Match(cursor *parsly.Cursor) int {
	in, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size {
		return 0
	}
	start := pos
	if in[pos] == '0' && pos+1 < size && (in[pos+1] == 'x' || in[pos+1] == 'X') {
		pos += 2
		for pos < size && isHexDigit(in[pos]) {
			pos++
		}
		if pos == start+2 {
			return 0
		}
		return pos - start
	}
	digits := 0
	for pos < size && isDigit(in[pos]) {
		pos++
		digits++
	}
	if pos < size && in[pos] == '.' {
		frac := pos + 1
		for frac < size && isDigit(in[frac]) {
			frac++
		}
		if frac > pos+1 || digits > 0 {
			digits += frac - pos - 1
			pos = frac
		}
	}
	if digits == 0 {
		return 0
	}
	if pos < size && (in[pos] == 'e' || in[pos] == 'E') {
		exp := pos + 1
		if exp < size && (in[exp] == '+' || in[exp] == '-') {
			exp++
		}
		if exp < size && isDigit(in[exp]) {
			for exp < size && isDigit(in[exp]) {
				exp++
			}
			pos = exp
		}
	}
	if pos < size && isIdentifierStart(in[pos]) {
		return 0
	}
	return pos - start
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// punctuators are ordered longest first so the first prefix match wins.
var punctuators = []string{
	"===", "!==", ">>>",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=", "=>", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ":", ",", ".", "?",
	"=", "<", ">", "+", "-", "*", "/", "%", "!", "~", "&", "|", "^",
}

type punctuatorMatch struct{}

func (p *punctuatorMatch) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	for _, punct := range punctuators {
		if len(rest) >= len(punct) && string(rest[:len(punct)]) == punct {
			return len(punct)
		}
	}
	return 0
}

type anyMatch struct{}

func (a *anyMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos < cursor.InputSize {
		return 1
	}
	return 0
}
